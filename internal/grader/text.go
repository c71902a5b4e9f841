package grader

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/codalotl/agent-evals/internal/types"
)

// ContainsOptions configures Contains and NotContains.
type ContainsOptions struct {
	// CaseSensitive defaults to false: matching folds case.
	CaseSensitive bool
}

// Contains passes when s appears as a substring of output.text. An empty
// needle always passes. Matching is case-insensitive by default.
func Contains(s string, opts ContainsOptions) Fn {
	name := fmt.Sprintf("contains(%q)", s)
	needle := s
	if !opts.CaseSensitive {
		needle = strings.ToLower(needle)
	}
	return func(_ context.Context, output types.TargetOutput, _ *types.CaseExpected, _ Context) (types.GradeResult, error) {
		if s == "" {
			return result(name, true, 1, "empty needle always passes"), nil
		}
		haystack := output.Text
		if !opts.CaseSensitive {
			haystack = strings.ToLower(haystack)
		}
		if strings.Contains(haystack, needle) {
			return result(name, true, 1, fmt.Sprintf("output contains %q", s)), nil
		}
		return result(name, false, 0, fmt.Sprintf("output does not contain %q", s)), nil
	}
}

// NotContains passes when s does not appear in output.text. An empty
// needle or empty text both pass (vacuously nothing to find).
func NotContains(s string, opts ContainsOptions) Fn {
	name := fmt.Sprintf("notContains(%q)", s)
	inner := Contains(s, opts)
	return func(ctx context.Context, output types.TargetOutput, expected *types.CaseExpected, gctx Context) (types.GradeResult, error) {
		if s == "" {
			return result(name, true, 1, "empty needle always passes"), nil
		}
		r, err := inner(ctx, output, expected, gctx)
		if err != nil {
			return types.GradeResult{}, err
		}
		if r.Pass {
			return result(name, false, 0, fmt.Sprintf("output contains forbidden substring %q", s)), nil
		}
		return result(name, true, 1, fmt.Sprintf("output does not contain %q", s)), nil
	}
}

// ExactMatchOptions configures ExactMatch.
type ExactMatchOptions struct {
	// Trim defaults to true.
	Trim *bool
	// CaseSensitive defaults to true.
	CaseSensitive *bool
}

func (o ExactMatchOptions) trim() bool {
	if o.Trim == nil {
		return true
	}
	return *o.Trim
}

func (o ExactMatchOptions) caseSensitive() bool {
	if o.CaseSensitive == nil {
		return true
	}
	return *o.CaseSensitive
}

// ExactMatch passes when output.text equals s, after optional trimming and
// case folding. Both options default to the spec's stated defaults.
func ExactMatch(s string, opts ExactMatchOptions) Fn {
	name := fmt.Sprintf("exactMatch(%q)", s)
	return func(_ context.Context, output types.TargetOutput, _ *types.CaseExpected, _ Context) (types.GradeResult, error) {
		got := output.Text
		want := s
		if opts.trim() {
			got = strings.TrimSpace(got)
			want = strings.TrimSpace(want)
		}
		if !opts.caseSensitive() {
			got = strings.ToLower(got)
			want = strings.ToLower(want)
		}
		if got == want {
			return result(name, true, 1, "exact match"), nil
		}
		return result(name, false, 0, fmt.Sprintf("expected %q, got %q", want, got)), nil
	}
}

// RegexOptions configures Regex.
type RegexOptions struct {
	// Flags is a subset of Go regexp inline flags, e.g. "i" for
	// case-insensitive, applied as "(?flags)" ahead of the pattern.
	Flags string
}

// Regex compiles pat eagerly (an invalid pattern panics at factory time,
// matching the "configuration errors are raised at factory time" rule)
// and passes when the compiled pattern matches output.text.
func Regex(pat string, opts RegexOptions) Fn {
	full := pat
	if opts.Flags != "" {
		full = fmt.Sprintf("(?%s)%s", opts.Flags, pat)
	}
	re, err := regexp.Compile(full)
	if err != nil {
		panic(fmt.Sprintf("grader.Regex: invalid pattern %q: %v", pat, err))
	}
	name := fmt.Sprintf("regex(%q)", pat)
	return func(_ context.Context, output types.TargetOutput, _ *types.CaseExpected, _ Context) (types.GradeResult, error) {
		if re.MatchString(output.Text) {
			return result(name, true, 1, "pattern matched"), nil
		}
		return result(name, false, 0, "pattern did not match"), nil
	}
}

// JSONSchema validates output.text, parsed as JSON, against schema. The
// schema is resolved eagerly so a malformed schema panics at factory time.
func JSONSchema(schema *jsonschema.Schema) Fn {
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{ValidateDefaults: true})
	if err != nil {
		panic(fmt.Sprintf("grader.JSONSchema: invalid schema: %v", err))
	}
	name := "jsonSchema"
	return func(_ context.Context, output types.TargetOutput, _ *types.CaseExpected, _ Context) (types.GradeResult, error) {
		text := strings.TrimSpace(output.Text)
		if text == "" {
			return result(name, false, 0, "output is empty"), nil
		}
		var parsed any
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return result(name, false, 0, fmt.Sprintf("output is not valid JSON: %v", err)), nil
		}
		if err := resolved.Validate(parsed); err != nil {
			return result(name, false, 0, fmt.Sprintf("schema violation: %v", err)), nil
		}
		return result(name, true, 1, "schema satisfied"), nil
	}
}

// SafetyKeywords passes when none of the keywords appear in output.text,
// matched case-insensitively.
func SafetyKeywords(keywords []string) Fn {
	name := fmt.Sprintf("safetyKeywords(%d)", len(keywords))
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return func(_ context.Context, output types.TargetOutput, _ *types.CaseExpected, _ Context) (types.GradeResult, error) {
		haystack := strings.ToLower(output.Text)
		var found []string
		for i, k := range lowered {
			if k == "" {
				continue
			}
			if strings.Contains(haystack, k) {
				found = append(found, keywords[i])
			}
		}
		if len(found) == 0 {
			return result(name, true, 1, "no unsafe keywords found"), nil
		}
		return result(name, false, 0, fmt.Sprintf("found unsafe keywords: %s", strings.Join(found, ", "))), nil
	}
}
