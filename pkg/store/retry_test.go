package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPoolExhausted(t *testing.T) {
	assert.True(t, IsPoolExhausted(errors.New("Connection pool exhausted after 30s")))
	assert.True(t, IsPoolExhausted(errors.New("pq: sorry, too many clients already")))
	assert.True(t, IsPoolExhausted(errors.New("FATAL: remaining connection slots are reserved")))
	assert.True(t, IsPoolExhausted(errors.New("database is locked")))
	assert.False(t, IsPoolExhausted(errors.New("syntax error")))
	assert.False(t, IsPoolExhausted(nil))
}

func TestDoRetriesPoolExhaustion(t *testing.T) {
	calls := 0
	var stamps []time.Time
	err := Do(context.Background(), RetryPolicy{MaxAttempts: 3, BaseDelay: 20 * time.Millisecond}, "test", func(context.Context) error {
		calls++
		stamps = append(stamps, time.Now())
		if calls < 3 {
			return errors.New("connection pool exhausted")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	// Delays grow linearly: ~20ms, then ~40ms.
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 40*time.Millisecond)
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, "test", func(context.Context) error {
		calls++
		return errors.New("too many clients")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoDoesNotRetryOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Do(context.Background(), DefaultRetry, "test", func(context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, RetryPolicy{MaxAttempts: 5, BaseDelay: time.Hour}, "test", func(context.Context) error {
		calls++
		cancel()
		return errors.New("connection pool exhausted")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryReturnsValue(t *testing.T) {
	calls := 0
	v, err := Retry(context.Background(), RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond}, "test", func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("database is locked")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}
