// Package judge implements LLM-judge graders: a three-layer fault-tolerant
// parser for free-form judge text, the rubric prompt builder, and the
// llmRubric/factuality grader factories built on top of them.
package judge

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParsedVerdict is the {reasoning, score} pair extracted from judge text.
type ParsedVerdict struct {
	Reasoning string
	Score     int // always in [1,4] on success
}

// ParseError is returned when none of the three parser layers could
// extract a valid verdict. Callers MUST treat this as a failing grade,
// never a silent pass.
type ParseError struct {
	RawText string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("judge response parse failed: %s", e.Message)
}

const maxReasoningLen = 2000

var scoreFieldNames = []string{"score", "rating", "total_rating"}
var reasoningFieldNames = []string{"reasoning", "evaluation", "explanation", "rationale"}

// ParseVerdict extracts {reasoning, score} from free-form judge text via
// three fallback layers: strict JSON, JSON extracted from surrounding
// prose or a markdown fence, then a labeled text pattern. It never
// returns success with a score outside {1,2,3,4}.
func ParseVerdict(text string) (ParsedVerdict, error) {
	trimmed := strings.TrimSpace(text)

	if v, err := parseStrictJSON(trimmed); err == nil {
		return v, nil
	}

	if v, err := parseExtractedJSON(trimmed); err == nil {
		return v, nil
	}

	if v, err := parseTextPattern(trimmed); err == nil {
		return v, nil
	}

	return ParsedVerdict{}, &ParseError{
		RawText: text,
		Message: "could not extract a valid {reasoning, score} verdict from judge response",
	}
}

// parseStrictJSON is layer 1: the whole trimmed text must be a JSON object.
func parseStrictJSON(trimmed string) (ParsedVerdict, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return ParsedVerdict{}, err
	}
	return validateVerdictObject(obj)
}

var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// parseExtractedJSON is layer 2: try a ```json fenced block first, then
// the first '{' through the last '}' in the text.
func parseExtractedJSON(trimmed string) (ParsedVerdict, error) {
	if m := fencedJSONPattern.FindStringSubmatch(trimmed); m != nil {
		var obj map[string]any
		if err := json.Unmarshal([]byte(m[1]), &obj); err == nil {
			return validateVerdictObject(obj)
		}
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end < 0 || end < start {
		return ParsedVerdict{}, fmt.Errorf("no JSON object found")
	}
	candidate := trimmed[start : end+1]
	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return ParsedVerdict{}, err
	}
	return validateVerdictObject(obj)
}

// scoreLinePattern matches "score: N" / "rating : N" case-insensitively.
// The trailing word boundary keeps "score: 10" from matching as "1"
// (RE2 has no lookahead, so a word boundary stands in for it: there is
// no boundary between two adjacent digits).
var scoreLinePattern = regexp.MustCompile(`(?i)(?:score|rating)\s*:\s*([1-4])\b`)
var reasoningLinePattern = regexp.MustCompile(`(?is)(?:reasoning|evaluation|explanation)\s*:\s*(.*)`)

// parseTextPattern is layer 3: a labeled score line, with reasoning taken
// either from a labeled block or from everything preceding the score line.
func parseTextPattern(trimmed string) (ParsedVerdict, error) {
	loc := scoreLinePattern.FindStringSubmatchIndex(trimmed)
	if loc == nil {
		return ParsedVerdict{}, fmt.Errorf("no score line found")
	}
	scoreStr := trimmed[loc[2]:loc[3]]
	score, err := strconv.Atoi(scoreStr)
	if err != nil || score < 1 || score > 4 {
		return ParsedVerdict{}, fmt.Errorf("invalid score %q", scoreStr)
	}

	var reasoning string
	if rm := reasoningLinePattern.FindStringSubmatch(trimmed); rm != nil {
		reasoning = strings.TrimSpace(firstLine(rm[1]))
	} else {
		reasoning = strings.TrimSpace(trimmed[:loc[0]])
	}
	reasoning = strings.TrimSpace(reasoning)
	if reasoning == "" {
		return ParsedVerdict{}, fmt.Errorf("empty reasoning")
	}
	return ParsedVerdict{Reasoning: truncate(reasoning, maxReasoningLen), Score: score}, nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// validateVerdictObject applies the shared validation rules: the score
// field must be an integer in [1,4] under one of the accepted names, and
// the reasoning field must be a non-empty string under one of the
// accepted names.
func validateVerdictObject(obj map[string]any) (ParsedVerdict, error) {
	scoreVal, ok := firstPresent(obj, scoreFieldNames)
	if !ok {
		return ParsedVerdict{}, fmt.Errorf("no score field present")
	}
	score, ok := asScore(scoreVal)
	if !ok {
		return ParsedVerdict{}, fmt.Errorf("score field is not an integer in [1,4]")
	}

	reasoningVal, ok := firstPresent(obj, reasoningFieldNames)
	if !ok {
		return ParsedVerdict{}, fmt.Errorf("no reasoning field present")
	}
	reasoningStr, ok := reasoningVal.(string)
	if !ok {
		return ParsedVerdict{}, fmt.Errorf("reasoning field is not a string")
	}
	reasoningStr = strings.TrimSpace(reasoningStr)
	if reasoningStr == "" {
		return ParsedVerdict{}, fmt.Errorf("reasoning field is empty")
	}

	return ParsedVerdict{Reasoning: truncate(reasoningStr, maxReasoningLen), Score: score}, nil
}

func firstPresent(obj map[string]any, names []string) (any, bool) {
	for _, n := range names {
		if v, ok := obj[n]; ok {
			return v, true
		}
	}
	return nil, false
}

func asScore(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	if f != float64(int(f)) {
		return 0, false
	}
	i := int(f)
	if i < 1 || i > 4 {
		return 0, false
	}
	return i, true
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
