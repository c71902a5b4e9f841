package suite

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/codalotl/agent-evals/internal/grader"
)

// GraderSpec is the YAML-declarable form of a grader.Config. Type selects
// one of the built-in grader factories; the remaining fields are that
// factory's parameters, left zero when unused.
type GraderSpec struct {
	Type      string   `yaml:"type"`
	Value     string   `yaml:"value"`
	Values    []string `yaml:"values"`
	Max       *float64 `yaml:"max"`
	Mode      string   `yaml:"mode"`
	Schema    string   `yaml:"schema"`
	Weight    float64  `yaml:"weight"`
	Required  bool     `yaml:"required"`
	Threshold *float64 `yaml:"threshold"`
}

// Build resolves a GraderSpec into a grader.Config, compiling any
// embedded regex or JSON schema at this point so load-time errors surface
// as configuration errors rather than per-case grading errors. Regex and
// JSONSchema panic on malformed input; that panic is recovered here and
// turned into a plain error, since this path is reached from config
// loading rather than from Go code that controls its own inputs.
func (s GraderSpec) Build() (cfg grader.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("grader %q: %v", s.Type, r)
		}
	}()
	fn, err := s.buildFn()
	if err != nil {
		return grader.Config{}, fmt.Errorf("grader %q: %w", s.Type, err)
	}
	weight := s.Weight
	if weight == 0 {
		weight = 1
	}
	return grader.Config{Grader: fn, Weight: weight, Required: s.Required, Threshold: s.Threshold}, nil
}

func (s GraderSpec) buildFn() (grader.Fn, error) {
	switch s.Type {
	case "contains":
		return grader.Contains(s.Value, grader.ContainsOptions{}), nil
	case "notContains":
		return grader.NotContains(s.Value, grader.ContainsOptions{}), nil
	case "exactMatch":
		return grader.ExactMatch(s.Value, grader.ExactMatchOptions{}), nil
	case "regex":
		return grader.Regex(s.Value, grader.RegexOptions{}), nil
	case "safetyKeywords":
		return grader.SafetyKeywords(s.Values), nil
	case "jsonSchema":
		var schema jsonschema.Schema
		if err := json.Unmarshal([]byte(s.Schema), &schema); err != nil {
			return nil, fmt.Errorf("parsing schema: %w", err)
		}
		return grader.JSONSchema(&schema), nil
	case "latency":
		return grader.Latency(floatOrZero(s.Max)), nil
	case "cost":
		return grader.Cost(floatOrZero(s.Max)), nil
	case "tokenCount":
		return grader.TokenCount(int(floatOrZero(s.Max))), nil
	case "toolCalled":
		return grader.ToolCalled(s.Value), nil
	case "toolNotCalled":
		return grader.ToolNotCalled(s.Value), nil
	case "toolSequence":
		return grader.ToolSequence(s.Values, grader.SequenceMode(s.Mode)), nil
	case "noHallucinatedNumbers":
		return grader.NoHallucinatedNumbers(grader.NoHallucinatedNumbersOptions{}), nil
	default:
		return nil, fmt.Errorf("unknown grader type %q", s.Type)
	}
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// BuildGraders resolves a list of GraderSpecs in order, failing on the
// first one that does not build.
func BuildGraders(specs []GraderSpec) ([]grader.Config, error) {
	out := make([]grader.Config, 0, len(specs))
	for i, s := range specs {
		cfg, err := s.Build()
		if err != nil {
			return nil, fmt.Errorf("grader %d: %w", i, err)
		}
		out = append(out, cfg)
	}
	return out, nil
}
