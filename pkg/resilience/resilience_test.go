package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream unavailable")

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func TestCircuitBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("trips after threshold and recovers after probes", func(t *testing.T) {
		c := &clock{t: time.Unix(1_700_000_000, 0)}
		cb := newCircuitBreaker("test", CircuitBreakerConfig{
			ErrorThreshold:   2,
			Timeout:          time.Minute,
			SuccessThreshold: 2,
		}, c.now)

		fail := func() error { return errUpstream }
		ok := func() error { return nil }

		assert.ErrorIs(t, cb.Execute(ctx, fail), errUpstream)
		assert.Equal(t, StateClosed, cb.State())
		assert.ErrorIs(t, cb.Execute(ctx, fail), errUpstream)
		assert.Equal(t, StateOpen, cb.State())

		calls := 0
		err := cb.Execute(ctx, func() error { calls++; return nil })
		assert.ErrorIs(t, err, ErrCircuitOpen)
		assert.Zero(t, calls)

		c.t = c.t.Add(time.Minute)
		require.NoError(t, cb.Execute(ctx, ok))
		assert.Equal(t, StateHalfOpen, cb.State())
		require.NoError(t, cb.Execute(ctx, ok))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("failed probe reopens", func(t *testing.T) {
		c := &clock{t: time.Unix(1_700_000_000, 0)}
		cb := newCircuitBreaker("test", CircuitBreakerConfig{ErrorThreshold: 1, Timeout: time.Second}, c.now)

		_ = cb.Execute(ctx, func() error { return errUpstream })
		c.t = c.t.Add(2 * time.Second)

		assert.ErrorIs(t, cb.Execute(ctx, func() error { return errUpstream }), errUpstream)
		assert.Equal(t, StateOpen, cb.State())
		assert.ErrorIs(t, cb.Execute(ctx, func() error { return nil }), ErrCircuitOpen)
	})

	t.Run("ignored errors do not count", func(t *testing.T) {
		clientErr := errors.New("bad request")
		cb := NewCircuitBreaker("test", CircuitBreakerConfig{
			ErrorThreshold: 1,
			Timeout:        time.Minute,
			IsFailure:      func(err error) bool { return !errors.Is(err, clientErr) },
		})

		assert.ErrorIs(t, cb.Execute(ctx, func() error { return clientErr }), clientErr)
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("success resets failure count", func(t *testing.T) {
		cb := NewCircuitBreaker("test", CircuitBreakerConfig{ErrorThreshold: 2, Timeout: time.Minute})

		_ = cb.Execute(ctx, func() error { return errUpstream })
		_ = cb.Execute(ctx, func() error { return nil })
		_ = cb.Execute(ctx, func() error { return errUpstream })
		assert.Equal(t, StateClosed, cb.State())
	})
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	fast := RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, BackoffFactor: 2}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := NewRetry("test", fast).Execute(ctx, func() error {
			calls++
			if calls < 3 {
				return errUpstream
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := NewRetry("test", fast).Execute(ctx, func() error {
			calls++
			return errUpstream
		})
		assert.ErrorIs(t, err, errUpstream)
		assert.Equal(t, 3, calls)
	})

	t.Run("non retryable error stops immediately", func(t *testing.T) {
		permanent := errors.New("not found")
		cfg := fast
		cfg.ShouldRetry = func(err error) bool { return !errors.Is(err, permanent) }

		calls := 0
		err := NewRetry("test", cfg).Execute(ctx, func() error {
			calls++
			return permanent
		})
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context interrupts backoff", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		slow := fast
		slow.InitialBackoff = time.Hour
		slow.ShouldRetry = func(error) bool { return true }

		err := NewRetry("test", slow).Execute(cancelled, func() error { return errUpstream })
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, errUpstream)
	})
}
