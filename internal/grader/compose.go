package grader

import (
	"context"
	"strings"

	"github.com/codalotl/agent-evals/internal/types"
)

// All runs every grader (no short-circuit) and passes only when every
// sub-grader passes. Score is the minimum of sub-scores. An empty list
// is vacuously true with score 1.
func All(graders []Fn) Fn {
	names := make([]string, len(graders))
	return func(ctx context.Context, output types.TargetOutput, expected *types.CaseExpected, gctx Context) (types.GradeResult, error) {
		if len(graders) == 0 {
			return result("all()", true, 1, "vacuous all() over no graders"), nil
		}
		pass := true
		score := 1.0
		var reasons []string
		for i, g := range graders {
			r, err := g(ctx, output, expected, gctx)
			if err != nil {
				return types.GradeResult{}, err
			}
			names[i] = r.GraderName
			if !r.Pass {
				pass = false
			}
			if r.Score < score {
				score = r.Score
			}
			reasons = append(reasons, r.Reason)
		}
		name := "all(" + strings.Join(names, ", ") + ")"
		return result(name, pass, score, strings.Join(reasons, "; ")), nil
	}
}

// Any runs every grader (no short-circuit) and passes when at least one
// sub-grader passes. Score is the maximum of sub-scores. An empty list
// always fails with score 0.
func Any(graders []Fn) Fn {
	names := make([]string, len(graders))
	return func(ctx context.Context, output types.TargetOutput, expected *types.CaseExpected, gctx Context) (types.GradeResult, error) {
		if len(graders) == 0 {
			return result("any()", false, 0, "any() over no graders always fails"), nil
		}
		pass := false
		score := 0.0
		var reasons []string
		for i, g := range graders {
			r, err := g(ctx, output, expected, gctx)
			if err != nil {
				return types.GradeResult{}, err
			}
			names[i] = r.GraderName
			if r.Pass {
				pass = true
			}
			if r.Score > score {
				score = r.Score
			}
			reasons = append(reasons, r.Reason)
		}
		name := "any(" + strings.Join(names, ", ") + ")"
		return result(name, pass, score, strings.Join(reasons, "; ")), nil
	}
}

// Not inverts a grader's pass and reflects its score about 1.
func Not(g Fn) Fn {
	return func(ctx context.Context, output types.TargetOutput, expected *types.CaseExpected, gctx Context) (types.GradeResult, error) {
		r, err := g(ctx, output, expected, gctx)
		if err != nil {
			return types.GradeResult{}, err
		}
		name := "not(" + r.GraderName + ")"
		return result(name, !r.Pass, clamp01(1-r.Score), "negation of: "+r.Reason), nil
	}
}
