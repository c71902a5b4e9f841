package grader

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/codalotl/agent-evals/internal/types"
)

// NoHallucinatedNumbersOptions configures NoHallucinatedNumbers.
type NoHallucinatedNumbersOptions struct {
	// Tolerance is the relative tolerance used for grounding. Zero means
	// the default (0.005) is used.
	Tolerance float64
	// SkipSmallIntegers defaults to true: integers in [1900,2100] (years)
	// and |n|<10 are skipped from grounding checks. Set SkipSmallIntegersSet
	// to override the default of true.
	SkipSmallIntegers    bool
	SkipSmallIntegersSet bool
}

func (o NoHallucinatedNumbersOptions) tolerance() float64 {
	if o.Tolerance == 0 {
		return 0.005
	}
	return o.Tolerance
}

func (o NoHallucinatedNumbersOptions) skipSmallIntegers() bool {
	if !o.SkipSmallIntegersSet {
		return true
	}
	return o.SkipSmallIntegers
}

var numberPattern = regexp.MustCompile(`-?\d[\d,.]*\d|\d`)

// extractNumbers pulls every number-looking token out of s, stripping
// thousands separators, and returns the successfully parsed floats.
func extractNumbers(s string) []float64 {
	matches := numberPattern.FindAllString(s, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		cleaned := strings.ReplaceAll(m, ",", "")
		v, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// extractNumbersFromAny recursively walks a tool-call result value,
// collecting numbers from nested objects, arrays, numeric JSON values,
// and numeric-looking strings.
func extractNumbersFromAny(v any, out *[]float64) {
	switch t := v.(type) {
	case float64:
		*out = append(*out, t)
	case int:
		*out = append(*out, float64(t))
	case int64:
		*out = append(*out, float64(t))
	case string:
		*out = append(*out, extractNumbers(t)...)
	case map[string]any:
		for _, vv := range t {
			extractNumbersFromAny(vv, out)
		}
	case []any:
		for _, vv := range t {
			extractNumbersFromAny(vv, out)
		}
	}
}

func isSkippedNumber(n float64, skip bool) bool {
	if !skip {
		return false
	}
	if n != float64(int64(n)) {
		return false
	}
	i := int64(n)
	if i >= 1900 && i <= 2100 {
		return true
	}
	abs := i
	if abs < 0 {
		abs = -abs
	}
	if abs < 10 {
		return true
	}
	return false
}

func isGrounded(n float64, pool []float64, tolerance float64) bool {
	for _, g := range pool {
		if n == 0 && g == 0 {
			return true
		}
		denom := abs(n)
		if abs(g) > denom {
			denom = abs(g)
		}
		if denom == 0 {
			continue
		}
		if abs(n-g)/denom <= tolerance {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// NoHallucinatedNumbers passes when every non-skipped number appearing in
// output.text is grounded (within relative tolerance) by some number found
// anywhere inside output.toolCalls[*].result. Score is grounded/total.
//
// TODO: two-decimal currency amounts ($12.34) are graded by the same
// relative tolerance as any other number; whether they deserve tighter
// (or exact) grounding is an open question left to the default rule.
func NoHallucinatedNumbers(opts NoHallucinatedNumbersOptions) Fn {
	name := "noHallucinatedNumbers"
	tolerance := opts.tolerance()
	skip := opts.skipSmallIntegers()
	return func(_ context.Context, output types.TargetOutput, _ *types.CaseExpected, _ Context) (types.GradeResult, error) {
		textNumbers := extractNumbers(output.Text)
		var pool []float64
		for _, call := range output.ToolCalls {
			extractNumbersFromAny(call.Result, &pool)
		}

		total := 0
		grounded := 0
		var ungrounded []float64
		for _, n := range textNumbers {
			if isSkippedNumber(n, skip) {
				continue
			}
			total++
			if isGrounded(n, pool, tolerance) {
				grounded++
			} else {
				ungrounded = append(ungrounded, n)
			}
		}

		if total == 0 {
			return result(name, true, 1, "no numbers to ground"), nil
		}
		score := float64(grounded) / float64(total)
		if len(ungrounded) > 0 {
			return result(name, false, score, fmt.Sprintf("ungrounded numbers: %v", ungrounded)), nil
		}
		return result(name, true, score, "all numbers grounded in tool results"), nil
	}
}
