package reconcile

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds the retries applied to a single remote operation.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration

	// MaxInterval caps the delay between retries.
	MaxInterval time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		exp.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		exp.MaxInterval = p.MaxInterval
	}
	// The retry count is the only bound; elapsed time is left to ctx.
	exp.MaxElapsedTime = 0

	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

// retry runs fn until it succeeds, fails with a non-transient error, the
// policy is exhausted or ctx is done. The last error from fn is returned.
func retry[T any](ctx context.Context, policy RetryPolicy, fn func() (T, error)) (T, error) {
	var result T
	op := func() error {
		v, err := fn()
		if err != nil {
			if !IsTransient(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = v
		return nil
	}
	err := backoff.Retry(op, policy.backOff(ctx))
	return result, err
}

// retryErr is retry for operations that only return an error.
func retryErr(ctx context.Context, policy RetryPolicy, fn func() error) error {
	_, err := retry(ctx, policy, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
