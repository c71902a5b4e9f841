package grader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codalotl/agent-evals/internal/types"
)

func TestAllEmptyIsVacuouslyTrue(t *testing.T) {
	r := grade(t, All(nil), types.TargetOutput{})
	require.True(t, r.Pass)
	require.Equal(t, 1.0, r.Score)
}

func TestAnyEmptyAlwaysFails(t *testing.T) {
	r := grade(t, Any(nil), types.TargetOutput{})
	require.False(t, r.Pass)
	require.Equal(t, 0.0, r.Score)
}

func TestAllRunsEveryGraderNoShortCircuit(t *testing.T) {
	calls := 0
	counting := func() Fn {
		return func(_ context.Context, o types.TargetOutput, e *types.CaseExpected, c Context) (types.GradeResult, error) {
			calls++
			return result("counting", false, 0, "always fails"), nil
		}
	}
	_, err := All([]Fn{counting(), counting(), counting()})(context.Background(), types.TargetOutput{}, nil, Context{})
	require.NoError(t, err)
	require.Equal(t, 3, calls, "all() must invoke every grader even after a failure")
}

func TestAllScoreIsMin(t *testing.T) {
	a := ExactMatch("x", ExactMatchOptions{}) // will fail, score 0
	b := Latency(1000)                        // passes, score 1
	r := grade(t, All([]Fn{a, b}), types.TargetOutput{Text: "y", LatencyMs: 1})
	require.False(t, r.Pass)
	require.Equal(t, 0.0, r.Score)
	require.Contains(t, r.GraderName, "all(")
}

func TestAnyScoreIsMax(t *testing.T) {
	a := ExactMatch("x", ExactMatchOptions{}) // fails, score 0
	b := Latency(1000)                        // passes, score 1
	r := grade(t, Any([]Fn{a, b}), types.TargetOutput{Text: "y", LatencyMs: 1})
	require.True(t, r.Pass)
	require.Equal(t, 1.0, r.Score)
}

func TestNotInvertsPassAndScore(t *testing.T) {
	base := Latency(1000)
	r := grade(t, Not(base), types.TargetOutput{LatencyMs: 1})
	require.False(t, r.Pass)
	require.Equal(t, 0.0, r.Score)
}

func TestNotNotEqualsOriginal(t *testing.T) {
	base := Contains("hi", ContainsOptions{})
	doubleNegated := Not(Not(base))
	out := types.TargetOutput{Text: "hi there"}
	original := grade(t, base, out)
	twice := grade(t, doubleNegated, out)
	require.Equal(t, original.Pass, twice.Pass)
	require.InDelta(t, original.Score, twice.Score, 1e-9)
}
