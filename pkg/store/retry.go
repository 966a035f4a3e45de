package store

import (
	"context"
	"regexp"
	"time"

	"go.uber.org/zap"

	"feuerwehr-web/pkg/logger"
)

// RetryPolicy bounds the retries of a query that failed because the
// connection pool was exhausted.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

var DefaultRetry = RetryPolicy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond}

var poolExhausted = regexp.MustCompile(`(?i)connection pool exhausted|too many (clients|connections)|remaining connection slots|database is locked`)

// IsPoolExhausted reports whether err looks like the pool ran out of
// connections. Only these errors are worth retrying.
func IsPoolExhausted(err error) bool {
	return err != nil && poolExhausted.MatchString(err.Error())
}

// Do runs fn, retrying pool-exhaustion failures with a delay that grows
// linearly with the attempt number. Other errors are returned at once.
func Do(ctx context.Context, p RetryPolicy, op string, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil || !IsPoolExhausted(err) || attempt == attempts {
			return err
		}
		delay := time.Duration(attempt) * p.BaseDelay
		logger.Warn("connection pool exhausted, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

// Retry is Do for functions that return a value.
func Retry[T any](ctx context.Context, p RetryPolicy, op string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := Do(ctx, p, op, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
