// Package retry wraps remote calls with a bounded attempt loop and a
// pluggable delay strategy.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Strategy computes how long to wait after a failed attempt before the next
// one. attempt is 1-based and names the attempt that just failed.
type Strategy interface {
	Delay(attempt int) time.Duration
}

// Fixed waits the same duration between every attempt.
type Fixed time.Duration

func (f Fixed) Delay(int) time.Duration {
	return time.Duration(f)
}

// Exponential doubles the wait per attempt, caps it at Max, and adds up to
// 25% jitter so simultaneous clients do not retry in lockstep.
type Exponential struct {
	Base time.Duration
	Max  time.Duration
}

func (e Exponential) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	wait := e.Base * time.Duration(1<<uint(attempt-1))
	if e.Max > 0 && wait > e.Max {
		wait = e.Max
	}
	if wait > 0 {
		wait += time.Duration(rand.Int63n(int64(wait)/4 + 1))
	}
	return wait
}

// ExhaustedError is returned once every attempt has failed.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d attempts failed: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Do runs fn up to maxAttempts times, waiting per the strategy between
// failures. It returns nil on the first success, the context error if the
// wait is interrupted, and an ExhaustedError wrapping the last failure once
// the bound is spent.
func Do(ctx context.Context, maxAttempts int, strategy Strategy, fn func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}
		if err := sleepWithContext(ctx, strategy.Delay(attempt)); err != nil {
			return err
		}
	}

	return &ExhaustedError{Attempts: maxAttempts, Last: lastErr}
}

func sleepWithContext(ctx context.Context, wait time.Duration) error {
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
