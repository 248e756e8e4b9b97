// Package retry wraps idempotent store operations with bounded, backed-off
// retries. Only operations that are safe to repeat (upserts, reads) may be
// wrapped; non-idempotent creates must not be.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/harborcrm/harbor/internal/metrics"
	"github.com/rs/zerolog"
)

// Policy configures the backoff between attempts. Delays grow strictly with
// the attempt number; no jitter is applied so a later attempt never waits
// less than an earlier one.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultPolicy returns the backoff policy used for store operations.
func DefaultPolicy() Policy {
	return Policy{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2.0,
	}
}

// newBackOff builds the underlying exponential backoff for a policy.
func newBackOff(p Policy) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	return b
}

// Do invokes op up to maxAttempts times, waiting an increasing interval
// between attempts. The first successful result is returned. Once attempts
// are exhausted the last failure is returned, wrapped with the label. Every
// failed attempt is logged.
func Do[T any](ctx context.Context, p Policy, logger zerolog.Logger, label string, maxAttempts uint, op func() (T, error)) (T, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	result, err := backoff.Retry(ctx, backoff.Operation[T](func() (T, error) {
		metrics.StoreRetryAttempts.WithLabelValues(label).Inc()
		return op()
	}),
		backoff.WithBackOff(newBackOff(p)),
		backoff.WithMaxTries(maxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn().
				Err(err).
				Str("operation", label).
				Dur("next_attempt_in", next).
				Msg("operation failed, retrying")
		}),
	)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", label, err)
	}
	return result, nil
}
