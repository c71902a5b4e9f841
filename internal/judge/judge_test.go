package judge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codalotl/agent-evals/internal/grader"
	"github.com/codalotl/agent-evals/internal/types"
)

func stubJudge(text string, err error) grader.JudgeCall {
	return func(_ context.Context, _ []grader.JudgeMessage, _ *grader.JudgeCallOptions) (grader.JudgeResponse, error) {
		if err != nil {
			return grader.JudgeResponse{}, err
		}
		return grader.JudgeResponse{Text: text, ModelID: "stub-model"}, nil
	}
}

func TestLLMRubricNoJudgeConfiguredFailsClosed(t *testing.T) {
	g := LLMRubric(RubricOptions{Criteria: "be nice"})
	r, err := g(context.Background(), types.TargetOutput{Text: "hi"}, nil, grader.Context{})
	require.NoError(t, err)
	require.False(t, r.Pass)
	require.Equal(t, 0.0, r.Score)
	require.Contains(t, r.Reason, "No judge configured")
}

func TestLLMRubricJudgeCallErrorFailsWithMessage(t *testing.T) {
	g := LLMRubric(RubricOptions{Criteria: "be nice", Judge: stubJudge("", errors.New("network down"))})
	r, err := g(context.Background(), types.TargetOutput{Text: "hi"}, nil, grader.Context{})
	require.NoError(t, err)
	require.False(t, r.Pass)
	require.Contains(t, r.Reason, "network down")
}

func TestLLMRubricParsesScoreAndApplies025Scale(t *testing.T) {
	g := LLMRubric(RubricOptions{Criteria: "be nice", Judge: stubJudge(`{"reasoning":"great","score":4}`, nil)})
	r, err := g(context.Background(), types.TargetOutput{Text: "hi"}, nil, grader.Context{})
	require.NoError(t, err)
	require.True(t, r.Pass)
	require.Equal(t, 1.0, r.Score)
	require.Equal(t, 4, r.Metadata["judgeScore"])
}

func TestLLMRubricBelowThresholdFails(t *testing.T) {
	g := LLMRubric(RubricOptions{Criteria: "be nice", Judge: stubJudge(`{"reasoning":"meh","score":2}`, nil)})
	r, err := g(context.Background(), types.TargetOutput{Text: "hi"}, nil, grader.Context{})
	require.NoError(t, err)
	require.False(t, r.Pass)
	require.Equal(t, 0.5, r.Score)
}

func TestLLMRubricParseFailureNeverPasses(t *testing.T) {
	g := LLMRubric(RubricOptions{Criteria: "be nice", Judge: stubJudge("garbage non json text", nil)})
	r, err := g(context.Background(), types.TargetOutput{Text: "hi"}, nil, grader.Context{})
	require.NoError(t, err)
	require.False(t, r.Pass)
	require.Equal(t, 0.0, r.Score)
}

func TestLLMRubricPrecedenceFactoryOverContext(t *testing.T) {
	factoryJudge := stubJudge(`{"reasoning":"factory","score":4}`, nil)
	contextJudge := stubJudge(`{"reasoning":"context","score":1}`, nil)
	g := LLMRubric(RubricOptions{Criteria: "be nice", Judge: factoryJudge})
	r, err := g(context.Background(), types.TargetOutput{Text: "hi"}, nil, grader.Context{Judge: contextJudge})
	require.NoError(t, err)
	require.Equal(t, "factory", r.Metadata["reasoning"])
}

func TestLLMRubricFallsBackToContextJudge(t *testing.T) {
	contextJudge := stubJudge(`{"reasoning":"context","score":3}`, nil)
	g := LLMRubric(RubricOptions{Criteria: "be nice"})
	r, err := g(context.Background(), types.TargetOutput{Text: "hi"}, nil, grader.Context{Judge: contextJudge})
	require.NoError(t, err)
	require.Equal(t, "context", r.Metadata["reasoning"])
}

func TestFactualityRequiresExpectedText(t *testing.T) {
	g := Factuality(FactualityOptions{Judge: stubJudge(`{"reasoning":"ok","score":4}`, nil)})
	r, err := g(context.Background(), types.TargetOutput{Text: "hi"}, nil, grader.Context{})
	require.NoError(t, err)
	require.False(t, r.Pass)
	require.Contains(t, r.Reason, "expected.text")
	require.Equal(t, "factuality", r.GraderName)
}

func TestFactualityGraderNameIsLiteral(t *testing.T) {
	g := Factuality(FactualityOptions{Judge: stubJudge(`{"reasoning":"ok","score":4}`, nil)})
	r, err := g(context.Background(), types.TargetOutput{Text: "hi"}, &types.CaseExpected{Text: "hi there"}, grader.Context{})
	require.NoError(t, err)
	require.Equal(t, "factuality", r.GraderName)
	require.True(t, r.Pass)
}
