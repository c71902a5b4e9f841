// Package gate evaluates declarative post-run threshold checks against a
// RunSummary.
package gate

import (
	"fmt"

	"github.com/codalotl/agent-evals/internal/types"
)

// Config is a suite's gate declaration. Each field that is non-nil is
// evaluated; a missing field behaves as that gate not being configured.
type Config struct {
	PassRate     *float64 `json:"passRate,omitempty" yaml:"passRate,omitempty"`
	MaxCost      *float64 `json:"maxCost,omitempty" yaml:"maxCost,omitempty"`
	P95LatencyMs *float64 `json:"p95LatencyMs,omitempty" yaml:"p95LatencyMs,omitempty"`
}

// Evaluate checks every configured gate against summary and returns the
// conjunction plus per-gate detail. A nil/zero-value Config passes
// vacuously with no results.
func Evaluate(summary types.RunSummary, cfg Config) types.GateResult {
	var checks []types.GateCheck

	if cfg.PassRate != nil {
		checks = append(checks, checkGate("passRate", summary.PassRate, *cfg.PassRate, true))
	}
	if cfg.MaxCost != nil {
		checks = append(checks, checkGate("maxCost", summary.TotalCost, *cfg.MaxCost, false))
	}
	if cfg.P95LatencyMs != nil {
		checks = append(checks, checkGate("p95LatencyMs", summary.P95LatencyMs, *cfg.P95LatencyMs, false))
	}

	pass := true
	for _, c := range checks {
		if !c.Pass {
			pass = false
		}
	}

	return types.GateResult{Pass: pass, Results: checks}
}

// checkGate evaluates one gate. When atLeast is true, pass requires
// actual >= threshold (e.g. passRate); otherwise pass requires
// actual <= threshold (e.g. maxCost, p95LatencyMs). Both directions are
// inclusive at the boundary.
func checkGate(name string, actual, threshold float64, atLeast bool) types.GateCheck {
	var pass bool
	var reason string
	if atLeast {
		pass = actual >= threshold
		if pass {
			reason = fmt.Sprintf("%s %.4f >= %.4f", name, actual, threshold)
		} else {
			reason = fmt.Sprintf("%s %.4f < %.4f", name, actual, threshold)
		}
	} else {
		pass = actual <= threshold
		if pass {
			reason = fmt.Sprintf("%s %.4f <= %.4f", name, actual, threshold)
		} else {
			reason = fmt.Sprintf("%s %.4f > %.4f", name, actual, threshold)
		}
	}
	return types.GateCheck{Name: name, Pass: pass, Actual: actual, Threshold: threshold, Reason: reason}
}
