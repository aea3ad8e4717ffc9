// Package retry provides the fixed-delay retry policy used for file
// transfers.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted reports that a bounded policy ran out of attempts.
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy retries an operation with a fixed delay between attempts.
// MaxAttempts of zero means retry until success, which is the production
// default: an archiving run prefers eventual completion over bounded time.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Do runs fn until it reports success, the attempt budget is exhausted, or
// ctx is cancelled. fn returning false requests another attempt.
func (p Policy) Do(ctx context.Context, fn func() bool) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if fn() {
			return nil
		}

		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return fmt.Errorf("%w after %d attempts", ErrExhausted, attempt)
		}

		if err := sleep(ctx, p.Delay); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Sleep pauses for d or until ctx is cancelled. Used for the inter-file
// pacing delay between successful downloads.
func Sleep(ctx context.Context, d time.Duration) error {
	return sleep(ctx, d)
}
