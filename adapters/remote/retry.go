package remote

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/layer-3/xosclaim/config"
	"go.uber.org/zap"
)

const defaultMaxDelay = time.Hour

// retryPolicy is an attempt budget plus the delay schedule between attempts
type retryPolicy struct {
	attempts        int
	newBackOff      func() backoff.BackOff
	honorRetryAfter bool
	maxDelay        time.Duration
}

// exponentialPolicy waits initial*2^(attempt-1) between attempts and honors Retry-After on 429
func exponentialPolicy(cfg config.RetryConfig) retryPolicy {
	maxDelay := cfg.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}

	return retryPolicy{
		attempts: cfg.Attempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = cfg.Delay
			b.RandomizationFactor = 0
			b.Multiplier = 2
			b.MaxInterval = maxDelay
			b.MaxElapsedTime = 0
			b.Reset()
			return b
		},
		honorRetryAfter: true,
		maxDelay:        maxDelay,
	}
}

// constantPolicy waits the same delay between attempts
func constantPolicy(cfg config.RetryConfig) retryPolicy {
	return retryPolicy{
		attempts: cfg.Attempts,
		newBackOff: func() backoff.BackOff {
			return backoff.NewConstantBackOff(cfg.Delay)
		},
	}
}

// retryAfterBackOff stretches the next delay to a server supplied hint
type retryAfterBackOff struct {
	backoff.BackOff
	hint time.Duration
	max  time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.hint > next {
		next = b.hint
	}
	if b.max > 0 && next > b.max {
		next = b.max
	}
	b.hint = 0
	return next
}

// run executes op until it succeeds, returns a permanent error or the budget is spent
func (c *Client) run(ctx context.Context, stage string, policy retryPolicy, op func() error) error {
	attempts := policy.attempts
	if attempts < 1 {
		attempts = 1
	}

	hinted := &retryAfterBackOff{BackOff: policy.newBackOff(), max: policy.maxDelay}
	b := backoff.WithContext(backoff.WithMaxRetries(hinted, uint64(attempts-1)), ctx)

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		err := op()

		var statusErr *StatusError
		if policy.honorRetryAfter && errors.As(err, &statusErr) {
			hinted.hint = statusErr.RetryAfter
		}
		return err
	}, b, func(err error, next time.Duration) {
		c.logger.Warn("request failed, retrying",
			zap.String("stage", stage),
			zap.Int("attempt", attempt),
			zap.Int("budget", attempts),
			zap.Duration("retry_in", next),
			zap.Error(err),
		)
	})

	if err != nil {
		c.logger.Error("request failed",
			zap.String("stage", stage),
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
	}
	return err
}
