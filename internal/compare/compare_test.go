package compare

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codalotl/agent-evals/internal/types"
)

func trial(id string, status types.TrialStatus, score float64) types.Trial {
	return types.Trial{CaseID: id, Status: status, Score: score}
}

func TestRunRegressionClassification(t *testing.T) {
	base := types.Run{Trials: []types.Trial{trial("C01", types.StatusPass, 1)}}
	cmp := types.Run{Trials: []types.Trial{trial("C01", types.StatusFail, 0)}}

	result := Run(base, cmp, Options{})
	require.Equal(t, 1, result.Summary.Regressions)
	require.Equal(t, 0, result.Summary.Improvements)
	require.Equal(t, 0, result.Summary.Unchanged)
	require.Equal(t, DirectionRegression, result.Cases[0].Direction)
}

func TestRunImprovementOnStatusFlip(t *testing.T) {
	base := types.Run{Trials: []types.Trial{trial("C01", types.StatusFail, 0)}}
	cmp := types.Run{Trials: []types.Trial{trial("C01", types.StatusPass, 1)}}

	result := Run(base, cmp, Options{})
	require.Equal(t, DirectionImprovement, result.Cases[0].Direction)
	require.Equal(t, 1, result.Summary.Improvements)
}

func TestRunUnchangedWithinThreshold(t *testing.T) {
	base := types.Run{Trials: []types.Trial{trial("C01", types.StatusPass, 0.80)}}
	cmp := types.Run{Trials: []types.Trial{trial("C01", types.StatusPass, 0.82)}}

	result := Run(base, cmp, Options{})
	require.Equal(t, DirectionUnchanged, result.Cases[0].Direction)
}

func TestRunSameStatusBeyondThresholdIsMovement(t *testing.T) {
	base := types.Run{Trials: []types.Trial{trial("C01", types.StatusPass, 0.90)}}
	cmp := types.Run{Trials: []types.Trial{trial("C01", types.StatusPass, 0.60)}}

	result := Run(base, cmp, Options{})
	require.Equal(t, DirectionRegression, result.Cases[0].Direction)
}

func TestRunAddedAndRemovedCases(t *testing.T) {
	base := types.Run{Trials: []types.Trial{trial("C01", types.StatusPass, 1)}}
	cmp := types.Run{Trials: []types.Trial{trial("C02", types.StatusPass, 1)}}

	result := Run(base, cmp, Options{})
	require.Equal(t, 1, result.Summary.Added)
	require.Equal(t, 1, result.Summary.Removed)
	require.Equal(t, 2, result.Summary.TotalCases)
}

func TestRunTotalCasesIsUnionOfCaseIDs(t *testing.T) {
	base := types.Run{Trials: []types.Trial{trial("C01", types.StatusPass, 1), trial("C02", types.StatusPass, 1)}}
	cmp := types.Run{Trials: []types.Trial{trial("C02", types.StatusPass, 1), trial("C03", types.StatusPass, 1)}}

	result := Run(base, cmp, Options{})
	require.Equal(t, 3, result.Summary.TotalCases)
}

func TestRunGraderDiffMatchedByName(t *testing.T) {
	base := types.Run{Trials: []types.Trial{{
		CaseID: "C01", Status: types.StatusPass, Score: 1,
		Grades: []types.GradeResult{{GraderName: "contains(\"x\")", Pass: true, Score: 1}},
	}}}
	cmp := types.Run{Trials: []types.Trial{{
		CaseID: "C01", Status: types.StatusFail, Score: 0,
		Grades: []types.GradeResult{{GraderName: "contains(\"x\")", Pass: false, Score: 0}},
	}}}

	result := Run(base, cmp, Options{})
	require.Len(t, result.Cases[0].Graders, 1)
	require.Equal(t, DirectionRegression, result.Cases[0].Graders[0].Direction)
}

func TestRunCategoryDeltas(t *testing.T) {
	base := types.Run{Summary: types.RunSummary{ByCategory: map[types.Category]types.CategoryStats{
		types.CategoryHappyPath: {Total: 2, Passed: 2, PassRate: 1.0},
	}}}
	cmp := types.Run{Summary: types.RunSummary{ByCategory: map[types.Category]types.CategoryStats{
		types.CategoryHappyPath: {Total: 2, Passed: 1, PassRate: 0.5},
	}}}

	result := Run(base, cmp, Options{})
	require.Len(t, result.Categories, 1)
	require.InDelta(t, -0.5, result.Categories[0].Delta, 1e-9)
}

func TestRunAggregateDeltasAndGateBooleans(t *testing.T) {
	base := types.Run{Summary: types.RunSummary{TotalCost: 1, TotalDurationMs: 100, GateResult: types.GateResult{Pass: true}}}
	cmp := types.Run{Summary: types.RunSummary{TotalCost: 1.5, TotalDurationMs: 80, GateResult: types.GateResult{Pass: false}}}

	result := Run(base, cmp, Options{})
	require.InDelta(t, 0.5, result.Summary.CostDelta, 1e-9)
	require.InDelta(t, -20, result.Summary.DurationDelta, 1e-9)
	require.True(t, result.Summary.BaseGatePass)
	require.False(t, result.Summary.GatePass)
}
