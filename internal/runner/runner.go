// Package runner executes a resolved suite: it drives every case through
// the target and the grading pipeline, collects trials, computes the run
// summary, evaluates gates, and emits a persisted Run.
package runner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/codalotl/agent-evals/internal/gate"
	"github.com/codalotl/agent-evals/internal/grader"
	"github.com/codalotl/agent-evals/internal/judge"
	"github.com/codalotl/agent-evals/internal/output"
	"github.com/codalotl/agent-evals/internal/pipeline"
	"github.com/codalotl/agent-evals/internal/suite"
	"github.com/codalotl/agent-evals/internal/types"
)

// Options configures one suite execution.
type Options struct {
	// TimeoutMs bounds each target invocation. Zero means no timeout.
	TimeoutMs int64
	Judge     grader.JudgeCall
	Printer   *output.Printer
}

var errTargetNotConfigured = errors.New("runner: suite has no target configured")

// Run drives s through a live execution: every case invokes s.Target,
// then the grading pipeline, in case-declaration order.
func Run(ctx context.Context, s suite.Suite, opts Options) (types.Run, error) {
	if s.Target == nil {
		return types.Run{}, errTargetNotConfigured
	}

	cases, err := s.Resolve()
	if err != nil {
		return types.Run{}, err
	}
	if err := rejectDuplicateIDs(cases); err != nil {
		return types.Run{}, err
	}

	judgeCall := opts.Judge
	if s.RateLimitPerSecond > 0 && judgeCall != nil {
		judgeCall = judge.RateLimited(judgeCall, s.RateLimitPerSecond)
	}

	started := time.Now()
	trials := make([]types.Trial, 0, len(cases))

	for _, c := range cases {
		trial, err := runOneCase(ctx, s, c, judgeCall, opts)
		if err != nil {
			return types.Run{}, err
		}
		trials = append(trials, trial)
		reportTrial(opts.Printer, c, trial)
	}

	summary := Summarize(trials, cases, s.Gates)
	summary.TotalDurationMs = float64(time.Since(started).Microseconds()) / 1000.0
	run := types.Run{
		SchemaVersion:    types.SchemaVersion,
		ID:               uuid.NewString(),
		SuiteID:          s.Name,
		Mode:             types.ModeLive,
		Trials:           trials,
		Summary:          summary,
		Timestamp:        started.UTC(),
		ConfigHash:       ConfigHash(s.Name, cases, s.Gates),
		FrameworkVersion: FrameworkVersion,
	}
	return run, nil
}

// FrameworkVersion is stamped onto every emitted Run.
const FrameworkVersion = "1.0.0"

func runOneCase(ctx context.Context, s suite.Suite, c types.Case, judgeCall grader.JudgeCall, opts Options) (types.Trial, error) {
	caseCtx := ctx
	var cancel context.CancelFunc
	if opts.TimeoutMs > 0 {
		caseCtx, cancel = context.WithTimeout(ctx, time.Duration(opts.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	start := time.Now()
	out, err := s.Target(caseCtx, c.Input)
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		message := fmt.Sprintf("Target error: %s", err.Error())
		if errors.Is(caseCtx.Err(), context.DeadlineExceeded) {
			message = fmt.Sprintf("Timeout after %dms", opts.TimeoutMs)
		}
		return types.Trial{
			CaseID:     c.ID,
			Status:     types.StatusError,
			Output:     types.TargetOutput{Text: message, LatencyMs: durationMs},
			Grades:     nil,
			Score:      0,
			DurationMs: durationMs,
		}, nil
	}

	gctx := grader.Context{CaseID: c.ID, SuiteID: s.Name, Mode: types.ModeLive, Judge: judgeCall}
	result, err := pipeline.Run(ctx, out, c.Expected, nil, s.DefaultGraders, gctx)
	if err != nil {
		return types.Trial{}, fmt.Errorf("runner: case %q: %w", c.ID, err)
	}

	status := types.StatusFail
	if result.Case.Pass {
		status = types.StatusPass
	}
	return types.Trial{
		CaseID:     c.ID,
		Status:     status,
		Output:     out,
		Grades:     result.Grades,
		Score:      result.Case.Score,
		DurationMs: durationMs,
	}, nil
}

func reportTrial(p *output.Printer, c types.Case, t types.Trial) {
	if p == nil {
		return
	}
	switch t.Status {
	case types.StatusPass:
		_ = p.Appf("PASS %s (score %.2f)", c.ID, t.Score)
	case types.StatusFail:
		_ = p.Appf("FAIL %s (score %.2f)", c.ID, t.Score)
	case types.StatusError:
		_ = p.Appf("ERROR %s: %s", c.ID, t.Output.Text)
	}
}

func rejectDuplicateIDs(cases []types.Case) error {
	seen := make(map[string]bool, len(cases))
	for _, c := range cases {
		if seen[c.ID] {
			return fmt.Errorf("runner: duplicate case id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// Summarize derives a RunSummary from completed trials, the cases they
// came from (for category aggregation), and the suite's gate config.
func Summarize(trials []types.Trial, cases []types.Case, gates gate.Config) types.RunSummary {
	categoryByID := make(map[string]types.Category, len(cases))
	anyCategory := false
	for _, c := range cases {
		if c.Category != "" {
			categoryByID[c.ID] = c.Category
			anyCategory = true
		}
	}

	var passed, failed, errs int
	var totalCost float64
	latencies := make([]float64, 0, len(trials))
	byCategory := make(map[types.Category]types.CategoryStats)

	for _, t := range trials {
		switch t.Status {
		case types.StatusPass:
			passed++
		case types.StatusFail:
			failed++
		case types.StatusError:
			errs++
		}
		if t.Output.Cost != nil {
			totalCost += *t.Output.Cost
		}
		latencies = append(latencies, t.Output.LatencyMs)

		if cat, ok := categoryByID[t.CaseID]; ok {
			stats := byCategory[cat]
			stats.Total++
			switch t.Status {
			case types.StatusPass:
				stats.Passed++
			case types.StatusFail:
				stats.Failed++
			case types.StatusError:
				stats.Errors++
			}
			byCategory[cat] = stats
		}
	}

	total := passed + failed + errs
	passRate := 0.0
	if total > 0 {
		passRate = float64(passed) / float64(total)
	}

	for cat, stats := range byCategory {
		if stats.Total > 0 {
			stats.PassRate = float64(stats.Passed) / float64(stats.Total)
		}
		byCategory[cat] = stats
	}
	if !anyCategory {
		byCategory = nil
	}

	summary := types.RunSummary{
		TotalCases:   total,
		Passed:       passed,
		Failed:       failed,
		Errors:       errs,
		PassRate:     passRate,
		TotalCost:    totalCost,
		P95LatencyMs: p95(latencies),
		ByCategory:   byCategory,
	}
	// TotalDurationMs is wallclock since the run started, not derivable
	// from trial data alone; callers set it from their own start time.
	summary.GateResult = gate.Evaluate(summary, gates)
	return summary
}

// p95 returns the 95th-percentile value from an unordered latency slice,
// using index ceil(0.95*n)-1 of the ascending-sorted values, clamped to
// [0, n-1].
func p95(latencies []float64) float64 {
	n := len(latencies)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), latencies...)
	sort.Float64s(sorted)
	idx := int(math.Ceil(0.95*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return sorted[idx]
}

// ConfigHash computes the 16-hex-char truncated SHA-256 digest over the
// suite's structural identity: name, case count, case ids in order, and
// gate config. It deliberately excludes target/model identity.
func ConfigHash(name string, cases []types.Case, gates gate.Config) string {
	ids := make([]string, len(cases))
	for i, c := range cases {
		ids[i] = c.ID
	}
	payload := struct {
		Name      string      `json:"name"`
		CaseCount int         `json:"caseCount"`
		CaseIDs   []string    `json:"caseIds"`
		Gates     gate.Config `json:"gates"`
	}{Name: name, CaseCount: len(cases), CaseIDs: ids, Gates: gates}

	data, err := json.Marshal(payload)
	if err != nil {
		// Marshaling a struct of strings/slices/pointers-to-float64 cannot fail.
		panic(fmt.Sprintf("runner: configHash: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}
