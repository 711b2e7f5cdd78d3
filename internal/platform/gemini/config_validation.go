package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tarots-ai/tarots-api/internal/config"
	"github.com/tarots-ai/tarots-api/internal/interpretation"
)

// DefaultModel is used when the configuration names no model.
const DefaultModel = "gemini-2.0-flash"

// validateConfig checks the settings the Gemini adapter needs. Out-of-range
// retry settings are not fatal; they fall back to defaults with a warning.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) error {
	if cfg.APIKey == "" {
		logger.ErrorContext(ctx, "missing Gemini API key")
		return fmt.Errorf("%w: gemini API key cannot be empty", interpretation.ErrInvalidConfig)
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("%w: temperature %.2f out of range [0, 2]",
			interpretation.ErrInvalidConfig, cfg.Temperature)
	}

	if cfg.MaxRetries < 0 {
		logger.WarnContext(ctx, "invalid max_retries value, using default",
			slog.Int("value", cfg.MaxRetries))
	}

	if cfg.RetryDelaySeconds < 0 {
		logger.WarnContext(ctx, "invalid retry_delay_seconds value, using default",
			slog.Int("value", cfg.RetryDelaySeconds))
	}

	return nil
}

// retryPolicy derives the retry policy from the configuration, replacing
// invalid values with the defaults (3 retries, 2 second base delay).
func retryPolicy(cfg config.LLMConfig) interpretation.RetryPolicy {
	policy := interpretation.RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 3
	}
	if cfg.RetryDelaySeconds < 1 {
		policy.BaseDelay = 2 * time.Second
	}
	return policy
}
