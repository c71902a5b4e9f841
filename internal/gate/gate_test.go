package gate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codalotl/agent-evals/internal/types"
)

func ptr(f float64) *float64 { return &f }

func TestEvaluateMissingConfigPassesVacuously(t *testing.T) {
	res := Evaluate(types.RunSummary{PassRate: 0}, Config{})
	require.True(t, res.Pass)
	require.Empty(t, res.Results)
}

func TestEvaluatePassRateBoundaryInclusive(t *testing.T) {
	res := Evaluate(types.RunSummary{PassRate: 0.8}, Config{PassRate: ptr(0.8)})
	require.True(t, res.Pass)
	require.Len(t, res.Results, 1)
	require.True(t, res.Results[0].Pass)
}

func TestEvaluatePassRateBelowThresholdFails(t *testing.T) {
	res := Evaluate(types.RunSummary{PassRate: 0.79}, Config{PassRate: ptr(0.8)})
	require.False(t, res.Pass)
	require.False(t, res.Results[0].Pass)
}

func TestEvaluateMaxCostBoundaryInclusive(t *testing.T) {
	res := Evaluate(types.RunSummary{TotalCost: 5.0}, Config{MaxCost: ptr(5.0)})
	require.True(t, res.Pass)
}

func TestEvaluateMaxCostExceededFails(t *testing.T) {
	res := Evaluate(types.RunSummary{TotalCost: 5.01}, Config{MaxCost: ptr(5.0)})
	require.False(t, res.Pass)
}

func TestEvaluateP95LatencyExceededFails(t *testing.T) {
	res := Evaluate(types.RunSummary{P95LatencyMs: 1200}, Config{P95LatencyMs: ptr(1000)})
	require.False(t, res.Pass)
	require.Equal(t, "p95LatencyMs", res.Results[0].Name)
}

func TestEvaluateOnlyConfiguredGatesProduceResults(t *testing.T) {
	res := Evaluate(types.RunSummary{PassRate: 1, TotalCost: 100, P95LatencyMs: 9999}, Config{PassRate: ptr(0.5)})
	require.Len(t, res.Results, 1)
	require.Equal(t, "passRate", res.Results[0].Name)
}

func TestEvaluateAllGatesMustPass(t *testing.T) {
	res := Evaluate(types.RunSummary{PassRate: 1, TotalCost: 10}, Config{PassRate: ptr(0.5), MaxCost: ptr(1.0)})
	require.False(t, res.Pass)
	require.Len(t, res.Results, 2)
}
