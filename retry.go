package calendarApi

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	scheduleRetryStep     = 500 * time.Millisecond
	scheduleRetryAttempts = 3
)

// linearBackOff waits Step, 2*Step, 3*Step, ... between attempts
type linearBackOff struct {
	Step    time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return time.Duration(b.attempt) * b.Step
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}

// newRetryPolicy allows attempts calls in total, stopping early when ctx is done
func newRetryPolicy(ctx context.Context, step time.Duration, attempts int) backoff.BackOff {
	b := backoff.WithMaxRetries(&linearBackOff{Step: step}, uint64(attempts-1))
	return backoff.WithContext(b, ctx)
}

// retryable reports whether a failed call is worth repeating
func retryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindServer, KindRateLimited:
		return true
	default:
		return false
	}
}
