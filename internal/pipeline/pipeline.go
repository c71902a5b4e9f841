// Package pipeline runs the ordered grader list for one case against one
// TargetOutput and scores the results into a per-case verdict.
package pipeline

import (
	"context"
	"fmt"

	"github.com/codalotl/agent-evals/internal/grader"
	"github.com/codalotl/agent-evals/internal/scoring"
	"github.com/codalotl/agent-evals/internal/types"
)

// Result is the outcome of running the pipeline for one case.
type Result struct {
	Grades []types.GradeResult
	Case   scoring.CaseResult
}

// Run executes graders in declared order against output/expected, then
// scores them. If caseGraders is non-empty it replaces suiteDefaults
// entirely; otherwise suiteDefaults apply. Each grader closure carries its
// own name for its GradeResult; gctx is shared ambient context (case id,
// suite id, mode, judge handle), not a per-grader name carrier.
func Run(ctx context.Context, output types.TargetOutput, expected *types.CaseExpected, caseGraders, suiteDefaults []grader.Config, gctx grader.Context) (Result, error) {
	active := suiteDefaults
	if len(caseGraders) > 0 {
		active = caseGraders
	}

	grades := make([]types.GradeResult, 0, len(active))
	configs := make([]scoring.GraderConfig, 0, len(active))

	for _, cfg := range active {
		if cfg.Grader == nil {
			return Result{}, fmt.Errorf("pipeline: nil grader function in config")
		}
		g, err := cfg.Grader(ctx, output, expected, gctx)
		if err != nil {
			// Deterministic graders never raise by contract; an internal
			// exception is surfaced as a failing grade, never a throw.
			g = types.GradeResult{Pass: false, Score: 0, Reason: err.Error(), GraderName: gctx.GraderName}
		}
		grades = append(grades, g)
		configs = append(configs, scoring.GraderConfig{
			Weight:    cfg.Weight,
			Required:  cfg.Required,
			Threshold: cfg.Threshold,
		})
	}

	caseResult, err := scoring.Score(grades, configs)
	if err != nil {
		return Result{}, err
	}

	return Result{Grades: grades, Case: caseResult}, nil
}
