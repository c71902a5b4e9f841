package judge

import (
	"context"
	"errors"
	"fmt"

	"github.com/codalotl/agent-evals/internal/grader"
	"github.com/codalotl/agent-evals/internal/types"
)

// ErrNoJudgeConfigured is the sentinel reason surfaced when neither the
// factory nor the pipeline context provides a judge handle.
var ErrNoJudgeConfigured = errors.New("No judge configured")

// RubricOptions configures LLMRubric. Criteria is required; everything
// else has a documented default.
type RubricOptions struct {
	Criteria      string
	Judge         grader.JudgeCall
	PassThreshold float64 // defaults to 0.75 when zero
	Examples      []RubricExample
}

func (o RubricOptions) passThreshold() float64 {
	if o.PassThreshold == 0 {
		return 0.75
	}
	return o.PassThreshold
}

// scoreFromJudgeScale maps the 1..4 judge scale onto [0,1]: 1->0.25,
// 2->0.5, 3->0.75, 4->1.0.
func scoreFromJudgeScale(judgeScore int) float64 {
	return float64(judgeScore) * 0.25
}

// resolveJudge applies the precedence rule: factory opts.judge beats the
// ambient pipeline context judge.
func resolveJudge(factoryJudge grader.JudgeCall, gctx grader.Context) grader.JudgeCall {
	if factoryJudge != nil {
		return factoryJudge
	}
	return gctx.Judge
}

// LLMRubric grades output against a free-form criteria string using an
// LLM judge and the three-layer response parser. The judge is resolved by
// precedence: factory opts.Judge, then the pipeline context's judge. A
// missing judge or a judge/parse failure both fail closed.
func LLMRubric(opts RubricOptions) grader.Fn {
	name := fmt.Sprintf("llmRubric(%q)", opts.Criteria)
	threshold := opts.passThreshold()
	return func(ctx context.Context, output types.TargetOutput, expected *types.CaseExpected, gctx grader.Context) (types.GradeResult, error) {
		call := resolveJudge(opts.Judge, gctx)
		if call == nil {
			return gradeResult(name, false, 0, ErrNoJudgeConfigured.Error(), nil), nil
		}

		messages := []grader.JudgeMessage{
			buildSystemMessage(opts.Criteria, opts.Examples),
			buildUserMessage(output, expected),
		}

		resp, err := call(ctx, messages, nil)
		if err != nil {
			return gradeResult(name, false, 0, fmt.Sprintf("judge call failed: %v", err), nil), nil
		}

		verdict, err := ParseVerdict(resp.Text)
		if err != nil {
			return gradeResult(name, false, 0, err.Error(), nil), nil
		}

		score := scoreFromJudgeScale(verdict.Score)
		pass := score >= threshold
		meta := map[string]any{
			"reasoning":     verdict.Reasoning,
			"judgeScore":    verdict.Score,
			"judgeModelId":  resp.ModelID,
			"judgeCost":     resp.Cost,
		}
		return gradeResult(name, pass, score, verdict.Reasoning, meta), nil
	}
}

const factualityCriteria = "Judge the AGENT_OUTPUT against the EXPECTED_REFERENCE for: " +
	"ACCURACY (no factual errors), COMPLETENESS (covers what the reference covers), " +
	"and NO FABRICATION (introduces no claims absent from or contradicted by the reference)."

// FactualityOptions configures Factuality.
type FactualityOptions struct {
	Judge         grader.JudgeCall
	PassThreshold float64
}

// Factuality is LLMRubric fixed to a criteria focused on accuracy,
// completeness, and fabrication relative to expected.text. graderName is
// always the literal "factuality". If expected.text is absent the grader
// fails without invoking the judge.
func Factuality(opts FactualityOptions) grader.Fn {
	inner := LLMRubric(RubricOptions{
		Criteria:      factualityCriteria,
		Judge:         opts.Judge,
		PassThreshold: opts.PassThreshold,
	})
	return func(ctx context.Context, output types.TargetOutput, expected *types.CaseExpected, gctx grader.Context) (types.GradeResult, error) {
		if expected == nil || expected.Text == "" {
			return gradeResult("factuality", false, 0, "expected.text is required for factuality grading", nil), nil
		}
		r, err := inner(ctx, output, expected, gctx)
		if err != nil {
			return types.GradeResult{}, err
		}
		r.GraderName = "factuality"
		return r, nil
	}
}

func gradeResult(name string, pass bool, score float64, reason string, meta map[string]any) types.GradeResult {
	return types.GradeResult{Pass: pass, Score: score, Reason: reason, GraderName: name, Metadata: meta}
}
