// Package grader implements the deterministic grader primitives and the
// all/any/not composition algebra from the grader contract: an async
// function over (output, expected, context) that must be pure except for
// the optional judge call, and that raises configuration errors at
// factory time rather than at grade time.
package grader

import (
	"context"

	"github.com/codalotl/agent-evals/internal/types"
)

// Role is the speaker of one JudgeMessage turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// JudgeMessage is one turn in a short, stateless prompt sent to a judge.
type JudgeMessage struct {
	Role    Role
	Content string
}

// JudgeCallOptions carries optional per-call overrides for a judge call.
type JudgeCallOptions struct {
	ModelID string
}

// JudgeResponse is what a judge call returns.
type JudgeResponse struct {
	Text    string
	ModelID string
	Cost    *float64
}

// JudgeCall is the external judge contract: a short, stateless prompt in,
// a free-form response out. Implementations may cache or rate-limit.
type JudgeCall func(ctx context.Context, messages []JudgeMessage, opts *JudgeCallOptions) (JudgeResponse, error)

// Context is ambient information injected into every grader invocation.
// The judge handle is the only externally stateful resource a grader may
// touch; any caching or rate limiting lives inside the handle itself.
type Context struct {
	CaseID     string
	SuiteID    string
	Mode       types.Mode
	GraderName string
	Judge      JudgeCall
}

// Fn is the uniform grader interface: every primitive and every composed
// grader is a value of this type.
type Fn func(ctx context.Context, output types.TargetOutput, expected *types.CaseExpected, gctx Context) (types.GradeResult, error)

// Config binds a grader function to its scoring policy: optional weight
// (default 1), optional required flag (default false), and optional
// per-grader pass threshold.
type Config struct {
	Grader    Fn
	Weight    float64
	Required  bool
	Threshold *float64
}

// result is a small constructor to keep grader bodies terse and consistent.
func result(name string, pass bool, score float64, reason string) types.GradeResult {
	return types.GradeResult{Pass: pass, Score: score, Reason: reason, GraderName: name}
}

func resultWithMeta(name string, pass bool, score float64, reason string, meta map[string]any) types.GradeResult {
	r := result(name, pass, score, reason)
	r.Metadata = meta
	return r
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
