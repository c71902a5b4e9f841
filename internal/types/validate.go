package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// knownTargetOutputFields mirrors the json tags of TargetOutput and is used
// to reject unknown keys at decode time, per the strict-validation contract.
var knownTargetOutputFields = map[string]struct{}{
	"text":       {},
	"toolCalls":  {},
	"latencyMs":  {},
	"tokenUsage": {},
	"cost":       {},
	"raw":        {},
}

// ParseTargetOutput decodes a JSON object into a TargetOutput, rejecting any
// key not in the documented shape and any latency/cost that is negative.
func ParseTargetOutput(data []byte) (TargetOutput, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return TargetOutput{}, fmt.Errorf("parse target output: %w", err)
	}
	for key := range raw {
		if _, ok := knownTargetOutputFields[key]; !ok {
			return TargetOutput{}, fmt.Errorf("parse target output: unknown field %q", key)
		}
	}
	var out TargetOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return TargetOutput{}, fmt.Errorf("parse target output: %w", err)
	}
	return out, ValidateTargetOutput(out)
}

// ValidateTargetOutput checks the structural invariants on an already
// constructed TargetOutput (e.g. one returned directly by a target func).
func ValidateTargetOutput(out TargetOutput) error {
	if out.LatencyMs < 0 {
		return fmt.Errorf("target output: latencyMs must be >= 0, got %v", out.LatencyMs)
	}
	if out.Cost != nil && *out.Cost < 0 {
		return fmt.Errorf("target output: cost must be >= 0, got %v", *out.Cost)
	}
	if out.TokenUsage != nil {
		if out.TokenUsage.Input < 0 || out.TokenUsage.Output < 0 {
			return fmt.Errorf("target output: tokenUsage fields must be >= 0")
		}
	}
	return nil
}

// ValidateCase checks the structural invariants on a Case.
func ValidateCase(c Case) error {
	if c.ID == "" {
		return fmt.Errorf("case: id is required")
	}
	if c.Category != "" && !ValidCategory(c.Category) {
		return fmt.Errorf("case %q: invalid category %q", c.ID, c.Category)
	}
	return nil
}

// ValidateRun checks the Run-level invariants from the data model:
// totalCases = passed+failed+errors = len(trials), passRate consistency,
// each trial's output invariants, and every grade score lying in [0,1].
// A trial's status is not checked against its grades.
func ValidateRun(r Run) error {
	if r.SchemaVersion == "" {
		return fmt.Errorf("run: schemaVersion is required")
	}
	s := r.Summary
	if s.TotalCases != s.Passed+s.Failed+s.Errors {
		return fmt.Errorf("run: totalCases %d != passed+failed+errors %d", s.TotalCases, s.Passed+s.Failed+s.Errors)
	}
	if len(r.Trials) != s.TotalCases {
		return fmt.Errorf("run: totalCases %d != len(trials) %d", s.TotalCases, len(r.Trials))
	}
	wantPassRate := 0.0
	if s.TotalCases > 0 {
		wantPassRate = float64(s.Passed) / float64(s.TotalCases)
	}
	if !floatEquals(s.PassRate, wantPassRate) {
		return fmt.Errorf("run: passRate %v does not match passed/totalCases %v", s.PassRate, wantPassRate)
	}
	for _, t := range r.Trials {
		if err := ValidateTargetOutput(t.Output); err != nil {
			return fmt.Errorf("run: trial %s: %w", t.CaseID, err)
		}
		for _, g := range t.Grades {
			if g.Score < 0 || g.Score > 1 {
				return fmt.Errorf("run: trial %s: grade %q score %v out of [0,1]", t.CaseID, g.GraderName, g.Score)
			}
		}
	}
	return nil
}

func floatEquals(a, b float64) bool {
	const eps = 1e-9
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= eps
}
