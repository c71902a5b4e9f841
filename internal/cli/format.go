package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/codalotl/agent-evals/internal/compare"
	"github.com/codalotl/agent-evals/internal/types"
)

// outputFormat selects how a command renders its result to stdout.
type outputFormat string

const (
	formatJSON outputFormat = "json"
	formatText outputFormat = "text"
)

func parseFormat(s string) (outputFormat, error) {
	switch outputFormat(s) {
	case "", formatText:
		return formatText, nil
	case formatJSON:
		return formatJSON, nil
	default:
		return "", fmt.Errorf("--format: unsupported value %q (want %q or %q)", s, formatText, formatJSON)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printRun(w io.Writer, run types.Run, format outputFormat, gateOnly bool) error {
	if format == formatJSON {
		if gateOnly {
			return writeJSON(w, run.Summary.GateResult)
		}
		return writeJSON(w, run)
	}

	if gateOnly {
		return printGateResultText(w, run.Summary.GateResult)
	}

	s := run.Summary
	fmt.Fprintf(w, "suite:     %s\n", run.SuiteID)
	fmt.Fprintf(w, "run id:    %s\n", run.ID)
	fmt.Fprintf(w, "cases:     %d (passed %d, failed %d, errors %d)\n", s.TotalCases, s.Passed, s.Failed, s.Errors)
	fmt.Fprintf(w, "passRate:  %.2f\n", s.PassRate)
	fmt.Fprintf(w, "cost:      %.4f\n", s.TotalCost)
	fmt.Fprintf(w, "p95 (ms):  %.1f\n", s.P95LatencyMs)
	return printGateResultText(w, s.GateResult)
}

func printGateResultText(w io.Writer, gr types.GateResult) error {
	status := "PASS"
	if !gr.Pass {
		status = "FAIL"
	}
	fmt.Fprintf(w, "gate:      %s\n", status)
	for _, check := range gr.Results {
		checkStatus := "pass"
		if !check.Pass {
			checkStatus = "fail"
		}
		fmt.Fprintf(w, "  - %-14s %-4s actual=%v threshold=%v (%s)\n", check.Name, checkStatus, check.Actual, check.Threshold, check.Reason)
	}
	return nil
}

func printComparison(w io.Writer, c compare.Comparison, format outputFormat) error {
	if format == formatJSON {
		return writeJSON(w, c)
	}
	sum := c.Summary
	fmt.Fprintf(w, "cases:       %d (added %d, removed %d)\n", sum.TotalCases, sum.Added, sum.Removed)
	fmt.Fprintf(w, "regressions: %d\n", sum.Regressions)
	fmt.Fprintf(w, "improvements: %d\n", sum.Improvements)
	fmt.Fprintf(w, "unchanged:   %d\n", sum.Unchanged)
	fmt.Fprintf(w, "cost delta:  %.4f\n", sum.CostDelta)
	fmt.Fprintf(w, "gate:        %v -> %v\n", sum.BaseGatePass, sum.GatePass)
	for _, cd := range c.Cases {
		if cd.Direction == compare.DirectionUnchanged {
			continue
		}
		fmt.Fprintf(w, "  - %-20s %s (%s -> %s)\n", cd.CaseID, cd.Direction, cd.BaseStatus, cd.Status)
	}
	return nil
}
