package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codalotl/agent-evals/internal/grader"
	"github.com/codalotl/agent-evals/internal/types"
)

func TestRunCaseGradersReplaceSuiteDefaults(t *testing.T) {
	suiteDefault := grader.Config{Grader: grader.Contains("never matches", grader.ContainsOptions{})}
	caseGrader := grader.Config{Grader: grader.Contains("hello", grader.ContainsOptions{})}

	res, err := Run(context.Background(), types.TargetOutput{Text: "hello world"}, nil,
		[]grader.Config{caseGrader}, []grader.Config{suiteDefault}, grader.Context{})
	require.NoError(t, err)
	require.Len(t, res.Grades, 1)
	require.True(t, res.Grades[0].Pass)
}

func TestRunFallsBackToSuiteDefaultsWhenNoCaseGraders(t *testing.T) {
	suiteDefault := grader.Config{Grader: grader.Contains("hello", grader.ContainsOptions{})}

	res, err := Run(context.Background(), types.TargetOutput{Text: "hello world"}, nil,
		nil, []grader.Config{suiteDefault}, grader.Context{})
	require.NoError(t, err)
	require.Len(t, res.Grades, 1)
	require.True(t, res.Grades[0].Pass)
}

func TestRunPreservesDeclarationOrder(t *testing.T) {
	cfgs := []grader.Config{
		{Grader: grader.Contains("a", grader.ContainsOptions{})},
		{Grader: grader.Contains("b", grader.ContainsOptions{})},
		{Grader: grader.Contains("c", grader.ContainsOptions{})},
	}
	res, err := Run(context.Background(), types.TargetOutput{Text: "a b c"}, nil, nil, cfgs, grader.Context{})
	require.NoError(t, err)
	require.Equal(t, `contains("a")`, res.Grades[0].GraderName)
	require.Equal(t, `contains("b")`, res.Grades[1].GraderName)
	require.Equal(t, `contains("c")`, res.Grades[2].GraderName)
}

func TestRunRequiredFailurePropagatesToCaseResult(t *testing.T) {
	cfgs := []grader.Config{
		{Grader: grader.Contains("missing", grader.ContainsOptions{}), Required: true},
	}
	res, err := Run(context.Background(), types.TargetOutput{Text: "hello"}, nil, nil, cfgs, grader.Context{})
	require.NoError(t, err)
	require.False(t, res.Case.Pass)
	require.Equal(t, 0.0, res.Case.Score)
}
