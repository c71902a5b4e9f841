// Package compare diffs two Run artifacts into case-level and aggregate
// regression/improvement signals.
package compare

import (
	"sort"

	"github.com/codalotl/agent-evals/internal/types"
)

// Direction classifies how a case or grader moved between two runs.
type Direction string

const (
	DirectionAdded       Direction = "added"
	DirectionRemoved     Direction = "removed"
	DirectionRegression  Direction = "regression"
	DirectionImprovement Direction = "improvement"
	DirectionUnchanged   Direction = "unchanged"
)

// GraderDiff is the per-grader comparison between two paired trials.
type GraderDiff struct {
	GraderName string    `json:"graderName"`
	BaseScore  *float64  `json:"baseScore,omitempty"`
	Score      *float64  `json:"score,omitempty"`
	Direction  Direction `json:"direction"`
}

// CaseDiff is the per-case comparison between two runs.
type CaseDiff struct {
	CaseID     string            `json:"caseId"`
	Direction  Direction         `json:"direction"`
	BaseStatus types.TrialStatus `json:"baseStatus,omitempty"`
	Status     types.TrialStatus `json:"status,omitempty"`
	BaseScore  *float64          `json:"baseScore,omitempty"`
	Score      *float64          `json:"score,omitempty"`
	ScoreDelta *float64          `json:"scoreDelta,omitempty"`
	Graders    []GraderDiff      `json:"graders,omitempty"`
}

// CategoryDelta is the per-category pass-rate comparison between two runs.
type CategoryDelta struct {
	Category     types.Category `json:"category"`
	BasePassRate float64        `json:"basePassRate"`
	PassRate     float64        `json:"passRate"`
	Delta        float64        `json:"delta"`
}

// Summary is the aggregate result of comparing two runs.
type Summary struct {
	TotalCases    int     `json:"totalCases"`
	Added         int     `json:"added"`
	Removed       int     `json:"removed"`
	Regressions   int     `json:"regressions"`
	Improvements  int     `json:"improvements"`
	Unchanged     int     `json:"unchanged"`
	CostDelta     float64 `json:"costDelta"`
	DurationDelta float64 `json:"durationDelta"`
	BaseGatePass  bool    `json:"baseGatePass"`
	GatePass      bool    `json:"gatePass"`
}

// Comparison is the full result of diffing two runs.
type Comparison struct {
	Cases      []CaseDiff      `json:"cases"`
	Categories []CategoryDelta `json:"categories"`
	Summary    Summary         `json:"summary"`
}

// Options configures the comparison's sensitivity to score movement.
type Options struct {
	// ScoreThreshold is the |scoreDelta| that same-status pairs must
	// exceed to count as a movement; a delta equal to it is still
	// "unchanged". Defaults to 0.05.
	ScoreThreshold float64
}

func (o Options) threshold() float64 {
	if o.ScoreThreshold <= 0 {
		return 0.05
	}
	return o.ScoreThreshold
}

// Run diffs base against compare under opts.
func Run(base, compare types.Run, opts Options) Comparison {
	threshold := opts.threshold()

	baseByID := trialsByID(base.Trials)
	compareByID := trialsByID(compare.Trials)

	ids := unionIDsInOrder(base.Trials, compare.Trials)

	var cases []CaseDiff
	var added, removed, regressions, improvements, unchanged int

	for _, id := range ids {
		b, inBase := baseByID[id]
		c, inCompare := compareByID[id]

		switch {
		case inCompare && !inBase:
			added++
			score := c.Score
			cases = append(cases, CaseDiff{CaseID: id, Direction: DirectionAdded, Status: c.Status, Score: &score})
		case inBase && !inCompare:
			removed++
			score := b.Score
			cases = append(cases, CaseDiff{CaseID: id, Direction: DirectionRemoved, BaseStatus: b.Status, BaseScore: &score})
		default:
			scoreDelta := c.Score - b.Score
			direction := classify(b.Status, c.Status, scoreDelta, threshold)
			switch direction {
			case DirectionRegression:
				regressions++
			case DirectionImprovement:
				improvements++
			default:
				unchanged++
			}
			baseScore, score := b.Score, c.Score
			cases = append(cases, CaseDiff{
				CaseID:     id,
				Direction:  direction,
				BaseStatus: b.Status,
				Status:     c.Status,
				BaseScore:  &baseScore,
				Score:      &score,
				ScoreDelta: &scoreDelta,
				Graders:    graderDiffs(b, c, threshold),
			})
		}
	}

	categories := categoryDeltas(base.Summary, compare.Summary)

	summary := Summary{
		TotalCases:    len(ids),
		Added:         added,
		Removed:       removed,
		Regressions:   regressions,
		Improvements:  improvements,
		Unchanged:     unchanged,
		CostDelta:     compare.Summary.TotalCost - base.Summary.TotalCost,
		DurationDelta: compare.Summary.TotalDurationMs - base.Summary.TotalDurationMs,
		BaseGatePass:  base.Summary.GateResult.Pass,
		GatePass:      compare.Summary.GateResult.Pass,
	}

	return Comparison{Cases: cases, Categories: categories, Summary: summary}
}

func trialsByID(trials []types.Trial) map[string]types.Trial {
	m := make(map[string]types.Trial, len(trials))
	for _, t := range trials {
		m[t.CaseID] = t
	}
	return m
}

// unionIDsInOrder returns every case id appearing in either trial list,
// base order first, then any compare-only ids in compare order.
func unionIDsInOrder(base, compare []types.Trial) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, t := range base {
		if !seen[t.CaseID] {
			seen[t.CaseID] = true
			ids = append(ids, t.CaseID)
		}
	}
	for _, t := range compare {
		if !seen[t.CaseID] {
			seen[t.CaseID] = true
			ids = append(ids, t.CaseID)
		}
	}
	return ids
}

func classify(baseStatus, compareStatus types.TrialStatus, scoreDelta, threshold float64) Direction {
	wasPass := baseStatus == types.StatusPass
	isPass := compareStatus == types.StatusPass

	if wasPass && !isPass {
		return DirectionRegression
	}
	if !wasPass && isPass {
		return DirectionImprovement
	}
	if scoreDelta < -threshold {
		return DirectionRegression
	}
	if scoreDelta > threshold {
		return DirectionImprovement
	}
	return DirectionUnchanged
}

func graderDiffs(base, compare types.Trial, threshold float64) []GraderDiff {
	baseByName := make(map[string]types.GradeResult, len(base.Grades))
	for _, g := range base.Grades {
		baseByName[g.GraderName] = g
	}
	compareByName := make(map[string]types.GradeResult, len(compare.Grades))
	for _, g := range compare.Grades {
		compareByName[g.GraderName] = g
	}

	names := make([]string, 0, len(baseByName))
	seen := make(map[string]bool)
	for _, g := range base.Grades {
		names = append(names, g.GraderName)
		seen[g.GraderName] = true
	}
	for _, g := range compare.Grades {
		if !seen[g.GraderName] {
			names = append(names, g.GraderName)
			seen[g.GraderName] = true
		}
	}

	diffs := make([]GraderDiff, 0, len(names))
	for _, name := range names {
		b, inBase := baseByName[name]
		c, inCompare := compareByName[name]
		switch {
		case inCompare && !inBase:
			score := c.Score
			diffs = append(diffs, GraderDiff{GraderName: name, Score: &score, Direction: DirectionAdded})
		case inBase && !inCompare:
			score := b.Score
			diffs = append(diffs, GraderDiff{GraderName: name, BaseScore: &score, Direction: DirectionRemoved})
		default:
			scoreDelta := c.Score - b.Score
			direction := classify(statusFromPass(b.Pass), statusFromPass(c.Pass), scoreDelta, threshold)
			baseScore, score := b.Score, c.Score
			diffs = append(diffs, GraderDiff{GraderName: name, BaseScore: &baseScore, Score: &score, Direction: direction})
		}
	}
	return diffs
}

func statusFromPass(pass bool) types.TrialStatus {
	if pass {
		return types.StatusPass
	}
	return types.StatusFail
}

func categoryDeltas(base, compare types.RunSummary) []CategoryDelta {
	categories := make(map[types.Category]bool)
	for cat := range base.ByCategory {
		categories[cat] = true
	}
	for cat := range compare.ByCategory {
		categories[cat] = true
	}

	names := make([]string, 0, len(categories))
	for cat := range categories {
		names = append(names, string(cat))
	}
	sort.Strings(names)

	deltas := make([]CategoryDelta, 0, len(names))
	for _, name := range names {
		cat := types.Category(name)
		basePassRate := base.ByCategory[cat].PassRate
		comparePassRate := compare.ByCategory[cat].PassRate
		deltas = append(deltas, CategoryDelta{
			Category:     cat,
			BasePassRate: basePassRate,
			PassRate:     comparePassRate,
			Delta:        comparePassRate - basePassRate,
		})
	}
	return deltas
}
