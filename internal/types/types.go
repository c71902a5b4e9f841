// Package types holds the persisted data model shared by the grader,
// scoring, pipeline, runner, gate, and comparison packages.
package types

import "time"

// TokenUsage records input/output token counts for a target invocation.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// ToolCall is one entry in a TargetOutput's ordered tool-call trace.
type ToolCall struct {
	Name   string         `json:"name"`
	Args   map[string]any `json:"args,omitempty"`
	Result any            `json:"result,omitempty"`
}

// TargetOutput is what a target invocation produces for one case.
type TargetOutput struct {
	Text       string      `json:"text,omitempty"`
	ToolCalls  []ToolCall  `json:"toolCalls,omitempty"`
	LatencyMs  float64     `json:"latencyMs"`
	TokenUsage *TokenUsage `json:"tokenUsage,omitempty"`
	Cost       *float64    `json:"cost,omitempty"`
	Raw        any         `json:"raw,omitempty"`
}

// CaseExpected is the ground-truth reference a grader may consult.
// It is a capability bag: graders read only the fields they need.
type CaseExpected struct {
	Text      string         `json:"text,omitempty"`
	ToolCalls []ToolCall     `json:"toolCalls,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Category classifies a Case for aggregate byCategory statistics.
type Category string

const (
	CategoryHappyPath   Category = "happy_path"
	CategoryEdgeCase    Category = "edge_case"
	CategoryAdversarial Category = "adversarial"
	CategoryMultiStep   Category = "multi_step"
	CategoryRegression  Category = "regression"
)

// ValidCategory reports whether c is one of the defined categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryHappyPath, CategoryEdgeCase, CategoryAdversarial, CategoryMultiStep, CategoryRegression:
		return true
	}
	return false
}

// Case is one evaluation input, optionally paired with an expected
// reference, declared statically or loaded from JSONL/YAML.
type Case struct {
	ID          string         `json:"id"`
	Description string         `json:"description,omitempty"`
	Input       map[string]any `json:"input"`
	Expected    *CaseExpected  `json:"expected,omitempty"`
	Category    Category       `json:"category,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

// GradeResult is what a single grader invocation produces.
type GradeResult struct {
	Pass       bool           `json:"pass"`
	Score      float64        `json:"score"`
	Reason     string         `json:"reason"`
	GraderName string         `json:"graderName"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// TrialStatus is the outcome classification of one case execution.
type TrialStatus string

const (
	StatusPass  TrialStatus = "pass"
	StatusFail  TrialStatus = "fail"
	StatusError TrialStatus = "error"
)

// Trial is the record of one case's execution within a Run.
type Trial struct {
	CaseID     string        `json:"caseId"`
	Status     TrialStatus   `json:"status"`
	Output     TargetOutput  `json:"output"`
	Grades     []GradeResult `json:"grades"`
	Score      float64       `json:"score"`
	DurationMs float64       `json:"durationMs"`
	TrialIndex *int          `json:"trialIndex,omitempty"`
}

// GateCheck is the per-gate evaluation detail inside a GateResult.
type GateCheck struct {
	Name      string  `json:"name"`
	Pass      bool    `json:"pass"`
	Actual    float64 `json:"actual"`
	Threshold float64 `json:"threshold"`
	Reason    string  `json:"reason"`
}

// GateResult is the aggregate outcome of a suite's gate config.
type GateResult struct {
	Pass    bool        `json:"pass"`
	Results []GateCheck `json:"results"`
}

// CategoryStats is the per-category slice of a RunSummary.
type CategoryStats struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Errors   int     `json:"errors"`
	PassRate float64 `json:"passRate"`
}

// RunSummary is derived entirely from a Run's trials plus its gate config.
type RunSummary struct {
	TotalCases      int                        `json:"totalCases"`
	Passed          int                        `json:"passed"`
	Failed          int                        `json:"failed"`
	Errors          int                        `json:"errors"`
	PassRate        float64                    `json:"passRate"`
	TotalCost       float64                    `json:"totalCost"`
	TotalDurationMs float64                    `json:"totalDurationMs"`
	P95LatencyMs    float64                    `json:"p95LatencyMs"`
	ByCategory      map[Category]CategoryStats `json:"byCategory,omitempty"`
	GateResult      GateResult                 `json:"gateResult"`
}

// Mode identifies how a Run's trials were produced.
type Mode string

const (
	ModeLive      Mode = "live"
	ModeReplay    Mode = "replay"
	ModeJudgeOnly Mode = "judge-only"
)

// SchemaVersion is the current Run schema version, persisted verbatim.
const SchemaVersion = "1.0.0"

// Run is the persisted JSON artifact produced by one suite execution.
type Run struct {
	SchemaVersion    string     `json:"schemaVersion"`
	ID               string     `json:"id"`
	SuiteID          string     `json:"suiteId"`
	Mode             Mode       `json:"mode"`
	Trials           []Trial    `json:"trials"`
	Summary          RunSummary `json:"summary"`
	Timestamp        time.Time  `json:"timestamp"`
	ConfigHash       string     `json:"configHash"`
	FrameworkVersion string     `json:"frameworkVersion"`
}
