package grader

import (
	"context"
	"fmt"

	"github.com/codalotl/agent-evals/internal/types"
)

// Latency passes when output.latencyMs <= maxMs. The boundary is inclusive.
func Latency(maxMs float64) Fn {
	name := fmt.Sprintf("latency(%v)", maxMs)
	return func(_ context.Context, output types.TargetOutput, _ *types.CaseExpected, _ Context) (types.GradeResult, error) {
		if output.LatencyMs <= maxMs {
			return result(name, true, 1, fmt.Sprintf("%vms <= %vms", output.LatencyMs, maxMs)), nil
		}
		return result(name, false, 0, fmt.Sprintf("%vms > %vms", output.LatencyMs, maxMs)), nil
	}
}

// Cost passes when output.cost <= maxDollars, or when cost was not
// reported at all (skip passes).
func Cost(maxDollars float64) Fn {
	name := fmt.Sprintf("cost(%v)", maxDollars)
	return func(_ context.Context, output types.TargetOutput, _ *types.CaseExpected, _ Context) (types.GradeResult, error) {
		if output.Cost == nil {
			return result(name, true, 1, "cost not reported, skipping"), nil
		}
		if *output.Cost <= maxDollars {
			return result(name, true, 1, fmt.Sprintf("$%v <= $%v", *output.Cost, maxDollars)), nil
		}
		return result(name, false, 0, fmt.Sprintf("$%v > $%v", *output.Cost, maxDollars)), nil
	}
}

// TokenCount passes when the sum of input and output tokens is <= max, or
// when token usage was not reported at all (skip passes).
func TokenCount(max int) Fn {
	name := fmt.Sprintf("tokenCount(%d)", max)
	return func(_ context.Context, output types.TargetOutput, _ *types.CaseExpected, _ Context) (types.GradeResult, error) {
		if output.TokenUsage == nil {
			return result(name, true, 1, "token usage not reported, skipping"), nil
		}
		total := output.TokenUsage.Input + output.TokenUsage.Output
		if total <= max {
			return result(name, true, 1, fmt.Sprintf("%d tokens <= %d", total, max)), nil
		}
		return result(name, false, 0, fmt.Sprintf("%d tokens > %d", total, max)), nil
	}
}
