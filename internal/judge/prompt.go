package judge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codalotl/agent-evals/internal/grader"
	"github.com/codalotl/agent-evals/internal/types"
)

// RubricExample is one calibration example appended to the system prompt.
type RubricExample struct {
	OutputText       string
	ExpectedScore    int
	ExpectedReasoning string
}

func buildSystemMessage(criteria string, examples []RubricExample) grader.JudgeMessage {
	var b strings.Builder
	b.WriteString("You are an expert evaluator grading the output of an AI agent.\n\n")
	b.WriteString("Evaluation criteria:\n")
	b.WriteString(criteria)
	b.WriteString("\n\n")
	b.WriteString("Score the output on a strict 4-point integer scale:\n")
	b.WriteString("1 = poor, 2 = below average, 3 = good, 4 = excellent.\n\n")
	b.WriteString("Do NOT prefer longer responses over shorter ones. Judge only on how well the output satisfies the criteria above.\n\n")
	b.WriteString(`Respond with JSON only, matching exactly {"reasoning": string, "score": 1|2|3|4}, and nothing else.`)
	if len(examples) > 0 {
		b.WriteString("\n\nCalibration examples:\n")
		for _, ex := range examples {
			b.WriteString(fmt.Sprintf("- output: %q -> score %d, reasoning: %q\n", ex.OutputText, ex.ExpectedScore, ex.ExpectedReasoning))
		}
	}
	return grader.JudgeMessage{Role: grader.RoleSystem, Content: b.String()}
}

func buildUserMessage(output types.TargetOutput, expected *types.CaseExpected) grader.JudgeMessage {
	var b strings.Builder
	b.WriteString("<agent_output>\n")
	b.WriteString(output.Text)
	if len(output.ToolCalls) > 0 {
		b.WriteString("\n\nTool calls:\n")
		toolJSON, err := json.MarshalIndent(output.ToolCalls, "", "  ")
		if err == nil {
			b.Write(toolJSON)
		}
	}
	b.WriteString("\n</agent_output>")

	if expected != nil {
		b.WriteString("\n\n<expected_reference>\n")
		if expected.Text != "" {
			b.WriteString("Expected text: ")
			b.WriteString(expected.Text)
			b.WriteString("\n")
		}
		if len(expected.ToolCalls) > 0 {
			b.WriteString("Expected tool calls:\n")
			toolJSON, err := json.MarshalIndent(expected.ToolCalls, "", "  ")
			if err == nil {
				b.Write(toolJSON)
				b.WriteString("\n")
			}
		}
		if len(expected.Metadata) > 0 {
			b.WriteString("Metadata:\n")
			metaJSON, err := json.MarshalIndent(expected.Metadata, "", "  ")
			if err == nil {
				b.Write(metaJSON)
				b.WriteString("\n")
			}
		}
		b.WriteString("</expected_reference>")
	}

	return grader.JudgeMessage{Role: grader.RoleUser, Content: b.String()}
}
