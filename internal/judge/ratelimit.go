package judge

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/codalotl/agent-evals/internal/grader"
)

// RateLimited wraps a judge call with a token-bucket limiter so a suite
// with RateLimitPerSecond configured never exceeds that call rate. This is
// the "rate limiting layered on the judge handle" mechanism from the
// concurrency model: it changes nothing about the sequential case
// contract, it only throttles the one externally stateful resource a
// grader may touch.
func RateLimited(call grader.JudgeCall, perSecond float64) grader.JudgeCall {
	if perSecond <= 0 {
		return call
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), 1)
	return func(ctx context.Context, messages []grader.JudgeMessage, opts *grader.JudgeCallOptions) (grader.JudgeResponse, error) {
		if err := limiter.Wait(ctx); err != nil {
			return grader.JudgeResponse{}, err
		}
		return call(ctx, messages, opts)
	}
}
