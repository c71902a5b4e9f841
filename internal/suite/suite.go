// Package suite binds a case set, default graders, gates, and a target
// into the unit the runner executes.
package suite

import (
	"context"
	"fmt"

	"github.com/codalotl/agent-evals/internal/caseload"
	"github.com/codalotl/agent-evals/internal/gate"
	"github.com/codalotl/agent-evals/internal/grader"
	"github.com/codalotl/agent-evals/internal/types"
)

// Target is the caller-provided function under evaluation.
type Target func(ctx context.Context, input map[string]any) (types.TargetOutput, error)

// Suite is a named collection of cases with default graders, an optional
// gate config, and the target they are run against. Cases may be
// declared inline or loaded from a file; exactly one of Cases or
// CasesSource should be set.
type Suite struct {
	Name               string
	Cases              []types.Case
	CasesSource        string
	DefaultGraders     []grader.Config
	Gates              gate.Config
	Target             Target
	RateLimitPerSecond float64
}

// Resolve returns the suite's case list, loading it from CasesSource when
// Cases was not declared inline.
func (s Suite) Resolve() ([]types.Case, error) {
	if len(s.Cases) > 0 {
		return s.Cases, nil
	}
	if s.CasesSource == "" {
		return nil, nil
	}
	cases, err := caseload.Load(s.CasesSource)
	if err != nil {
		return nil, fmt.Errorf("suite %q: %w", s.Name, err)
	}
	return cases, nil
}
