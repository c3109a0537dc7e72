package wallet

import (
	"context"
	"errors"
	"log"
	"time"

	errs "walletd/internal/errors"
	"walletd/internal/repositories"
)

// RetryPolicy bounds the optimistic-conflict retry loop. The policy is data,
// not inline control flow, so tests can shrink it and callers can tune it.
type RetryPolicy struct {
	MaxAttempts int
	BaseBackoff time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxRetries
	}
	if p.BaseBackoff <= 0 {
		p.BaseBackoff = DefaultBaseBackoff
	}
	return p
}

// withRetry runs op until it succeeds, fails with a non-conflict error, or
// the attempt budget runs out. Only repositories.ErrVersionConflict is
// retried; validation failures surface immediately. Backoff doubles between
// attempts. Exhaustion maps to ErrWalletBusy.
func withRetry(ctx context.Context, policy RetryPolicy, operation string, metrics MetricsCollector, op func() error) error {
	policy = policy.withDefaults()
	backoff := policy.BaseBackoff

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return err
		}

		metrics.RecordConflictRetry(operation, attempt)
		log.Printf("%s: attempt %d hit a version conflict, retrying", operation, attempt)

		if attempt == policy.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return errs.ErrWalletBusy
}
