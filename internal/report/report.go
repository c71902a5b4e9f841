// Package report aggregates many persisted Run artifacts into a
// per-suite summary table, printable as CSV.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/codalotl/agent-evals/internal/persist"
	"github.com/codalotl/agent-evals/internal/types"
)

// Options selects which persisted Runs feed a Report.
type Options struct {
	RootPath string
	SuiteIDs []string
	// Limit bounds how many of the most recent runs per suite are
	// folded into that suite's row. Defaults to all of them.
	Limit int
}

// Row is one suite's aggregate statistics across the runs considered.
type Row struct {
	SuiteID         string
	RunCount        int
	GatesPassed     int
	AvgPassRate     float64
	AvgTotalCost    float64
	AvgP95LatencyMs float64
	LastRunID       string
	LastTimestamp   time.Time
}

// Report is a built, ready-to-render aggregate over a set of Runs.
type Report struct {
	Rows []Row
}

// Run scans opts.RootPath recursively for persisted Run JSON files and
// aggregates them into a Report, one row per suite id.
func Run(opts Options) (*Report, error) {
	if strings.TrimSpace(opts.RootPath) == "" {
		return nil, errors.New("RootPath is required")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = math.MaxInt32
	}

	runs, err := loadRuns(opts.RootPath)
	if err != nil {
		return nil, err
	}

	suiteSet := sliceToSet(opts.SuiteIDs)
	filtered := runs[:0]
	for _, r := range runs {
		if suiteSet != nil && !suiteSet[r.SuiteID] {
			continue
		}
		filtered = append(filtered, r)
	}

	grouped := map[string][]types.Run{}
	for _, r := range filtered {
		grouped[r.SuiteID] = append(grouped[r.SuiteID], r)
	}

	rows := make([]Row, 0, len(grouped))
	for suiteID, group := range grouped {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Timestamp.After(group[j].Timestamp)
		})
		if len(group) > limit {
			group = group[:limit]
		}
		rows = append(rows, buildRow(suiteID, group))
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AvgPassRate != rows[j].AvgPassRate {
			return rows[i].AvgPassRate > rows[j].AvgPassRate
		}
		return rows[i].SuiteID < rows[j].SuiteID
	})

	return &Report{Rows: rows}, nil
}

// WriteCSV renders the report as CSV with a header row.
func (r *Report) WriteCSV(w io.Writer) error {
	if w == nil {
		return errors.New("writer is nil")
	}
	header := []string{
		"suite_id",
		"run_count",
		"gates_passed",
		"avg_pass_rate",
		"avg_total_cost",
		"avg_p95_latency_ms",
		"last_run_id",
		"last_timestamp",
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range r.Rows {
		record := []string{
			row.SuiteID,
			strconv.Itoa(row.RunCount),
			strconv.Itoa(row.GatesPassed),
			formatFloat(row.AvgPassRate),
			formatFloat(row.AvgTotalCost),
			formatFloat(row.AvgP95LatencyMs),
			row.LastRunID,
			row.LastTimestamp.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func buildRow(suiteID string, group []types.Run) Row {
	var passRates, costs, latencies []float64
	gatesPassed := 0
	for _, r := range group {
		passRates = append(passRates, r.Summary.PassRate)
		costs = append(costs, r.Summary.TotalCost)
		latencies = append(latencies, r.Summary.P95LatencyMs)
		if r.Summary.GateResult.Pass {
			gatesPassed++
		}
	}
	return Row{
		SuiteID:         suiteID,
		RunCount:        len(group),
		GatesPassed:     gatesPassed,
		AvgPassRate:     avgOrZero(passRates),
		AvgTotalCost:    avgOrZero(costs),
		AvgP95LatencyMs: avgOrZero(latencies),
		LastRunID:       group[0].ID,
		LastTimestamp:   group[0].Timestamp,
	}
}

func loadRuns(root string) ([]types.Run, error) {
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []types.Run
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		run, err := persist.Read(path)
		if err != nil {
			return fmt.Errorf("report: %s: %w", path, err)
		}
		out = append(out, run)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func sliceToSet(items []string) map[string]bool {
	var out map[string]bool
	for _, s := range items {
		val := strings.TrimSpace(s)
		if val == "" {
			continue
		}
		if out == nil {
			out = map[string]bool{}
		}
		out[val] = true
	}
	return out
}

func avgOrZero(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func formatFloat(v float64) string {
	rounded := math.Round((v+math.Copysign(1e-9, v))*100) / 100
	if rounded == 0 {
		return "0"
	}
	s := strconv.FormatFloat(rounded, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
