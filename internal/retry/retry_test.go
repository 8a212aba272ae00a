package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	failing := errors.New("remote down")

	err := Do(context.Background(), 3, Fixed(0), func(context.Context) error {
		calls++
		return failing
	})

	assert.Equal(t, 3, calls)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, err, failing)
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0

	err := Do(context.Background(), 5, Fixed(0), func(context.Context) error {
		calls++
		if calls <= 2 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoFirstAttemptSuccessSkipsDelay(t *testing.T) {
	start := time.Now()

	err := Do(context.Background(), 3, Fixed(time.Hour), func(context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, 5, Fixed(time.Minute), func(context.Context) error {
		calls++
		return errors.New("fail")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestExponentialDelayGrowsAndCaps(t *testing.T) {
	s := Exponential{Base: time.Second, Max: 4 * time.Second}

	for attempt, want := range map[int]time.Duration{
		1: time.Second,
		2: 2 * time.Second,
		3: 4 * time.Second,
		4: 4 * time.Second, // capped
	} {
		d := s.Delay(attempt)
		assert.GreaterOrEqual(t, d, want, "attempt %d", attempt)
		assert.LessOrEqual(t, d, want+want/4, "attempt %d", attempt)
	}
}

func TestFixedDelayIsConstant(t *testing.T) {
	s := Fixed(5 * time.Second)
	assert.Equal(t, 5*time.Second, s.Delay(1))
	assert.Equal(t, 5*time.Second, s.Delay(4))
}
