package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codalotl/agent-evals/internal/grader"
	"github.com/codalotl/agent-evals/internal/pipeline"
	"github.com/codalotl/agent-evals/internal/suite"
	"github.com/codalotl/agent-evals/internal/types"
)

// JudgeOnly re-runs the grading pipeline over a previously persisted
// Run's trial outputs against the current suite's defaultGraders, without
// ever invoking the target. Each new Trial preserves output, durationMs,
// and trialIndex from the stored trial; only grades, score, and status
// may change.
func JudgeOnly(ctx context.Context, prior types.Run, s suite.Suite, judgeCall grader.JudgeCall) (types.Run, error) {
	cases, err := s.Resolve()
	if err != nil {
		return types.Run{}, err
	}
	expectedByID := make(map[string]*types.CaseExpected, len(cases))
	for _, c := range cases {
		expectedByID[c.ID] = c.Expected
	}

	started := time.Now()
	trials := make([]types.Trial, 0, len(prior.Trials))

	for _, stored := range prior.Trials {
		gctx := grader.Context{CaseID: stored.CaseID, SuiteID: s.Name, Mode: types.ModeJudgeOnly, Judge: judgeCall}
		result, err := pipeline.Run(ctx, stored.Output, expectedByID[stored.CaseID], nil, s.DefaultGraders, gctx)
		if err != nil {
			return types.Run{}, fmt.Errorf("runner: judge-only: case %q: %w", stored.CaseID, err)
		}

		status := types.StatusFail
		if result.Case.Pass {
			status = types.StatusPass
		}
		trials = append(trials, types.Trial{
			CaseID:     stored.CaseID,
			Status:     status,
			Output:     stored.Output,
			Grades:     result.Grades,
			Score:      result.Case.Score,
			DurationMs: stored.DurationMs,
			TrialIndex: stored.TrialIndex,
		})
	}

	summary := Summarize(trials, cases, s.Gates)
	summary.TotalDurationMs = float64(time.Since(started).Microseconds()) / 1000.0
	run := types.Run{
		SchemaVersion:    types.SchemaVersion,
		ID:               uuid.NewString(),
		SuiteID:          s.Name,
		Mode:             types.ModeJudgeOnly,
		Trials:           trials,
		Summary:          summary,
		Timestamp:        started.UTC(),
		ConfigHash:       ConfigHash(s.Name, cases, s.Gates),
		FrameworkVersion: FrameworkVersion,
	}
	return run, nil
}
