package interpretation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy bounds how often and how patiently a provider call is retried.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// IsTransient reports whether err is worth retrying. Configuration problems,
// refusals, empty answers and cancellation are permanent; provider errors
// decide for themselves; anything else (network failures) is transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrContentBlocked),
		errors.Is(err, ErrEmptyResponse):
		return false
	}
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Transient()
	}
	return true
}

// WithRetry calls fn until it succeeds, fails permanently, or the policy's
// retries are exhausted. Between attempts it waits
// BaseDelay * 2^attempt * (0.5 + rand(0, 0.5)), or less if ctx ends first.
func WithRetry(ctx context.Context, log *slog.Logger, policy RetryPolicy, fn func(ctx context.Context) error) error {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				log.InfoContext(ctx, "provider call succeeded after retry",
					slog.Int("attempt", attempt+1))
			}
			return nil
		}

		if !IsTransient(err) {
			return err
		}
		if attempt >= maxRetries {
			log.WarnContext(ctx, "maximum retry attempts reached",
				slog.Int("max_retries", maxRetries),
				slog.String("error", err.Error()))
			return err
		}

		backoff := float64(policy.BaseDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rand.Float64()*0.5))

		log.InfoContext(ctx, "retrying provider call after delay",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w", ErrInterpretationFailed, ctx.Err())
		}
	}
}
