// Package scoring aggregates a case's per-grader GradeResults into a
// single verdict honoring required/weighted/threshold semantics.
package scoring

import (
	"fmt"

	"github.com/codalotl/agent-evals/internal/types"
)

// GraderConfig binds a grader to its scoring policy. Grader itself is
// opaque here (the scoring package only needs the policy knobs); callers
// pass the resulting GradeResult, not the grader function.
type GraderConfig struct {
	Weight    float64 // defaults to 1 when zero
	Required  bool
	Threshold *float64 // per-grader pass threshold, if set
}

func (c GraderConfig) weight() float64 {
	if c.Weight == 0 {
		return 1
	}
	return c.Weight
}

// CaseResult is the per-case verdict produced by Score.
type CaseResult struct {
	Pass          bool
	Score         float64
	FailedGraders []string
	Reason        string
}

const defaultThreshold = 0.5

// Score combines ordered grades and their corresponding configs into one
// CaseResult. grades and configs must be the same length and in the same
// grader-declaration order.
func Score(grades []types.GradeResult, configs []GraderConfig) (CaseResult, error) {
	if len(grades) != len(configs) {
		return CaseResult{}, fmt.Errorf("scoring: %d grades but %d configs", len(grades), len(configs))
	}

	var failedRequired []string
	var firstFailedRequired string
	for i, g := range grades {
		if configs[i].Required && !g.Pass {
			failedRequired = append(failedRequired, g.GraderName)
			if firstFailedRequired == "" {
				firstFailedRequired = g.GraderName
			}
		}
	}
	if len(failedRequired) > 0 {
		return CaseResult{
			Pass:          false,
			Score:         0,
			FailedGraders: failedRequired,
			Reason:        fmt.Sprintf("required grader %q failed", firstFailedRequired),
		}, nil
	}

	weightedSum := 0.0
	totalWeight := 0.0
	for i, g := range grades {
		w := configs[i].weight()
		weightedSum += g.Score * w
		totalWeight += w
	}
	score := 1.0
	if totalWeight > 0 {
		score = weightedSum / totalWeight
	}

	threshold := defaultThreshold
	hasThreshold := false
	for _, c := range configs {
		if c.Threshold != nil {
			if !hasThreshold || *c.Threshold < threshold {
				threshold = *c.Threshold
				hasThreshold = true
			}
		}
	}

	pass := score >= threshold

	var failedGraders []string
	for _, g := range grades {
		if !g.Pass {
			failedGraders = append(failedGraders, g.GraderName)
		}
	}

	reason := "case passed"
	if !pass {
		reason = fmt.Sprintf("score %.4f below threshold %.4f", score, threshold)
	}

	return CaseResult{
		Pass:          pass,
		Score:         score,
		FailedGraders: failedGraders,
		Reason:        reason,
	}, nil
}
