package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
}

func TestRetry_SucceedsAfterTransient(t *testing.T) {
	calls := 0
	got, err := retry(context.Background(), testPolicy(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", NewError(KindMirrorUnavailable, OpPut, "a", errors.New("502"))
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnPermanent(t *testing.T) {
	calls := 0
	conflict := NewError(KindMirrorConflict, OpPut, "a", errors.New("409"))
	err := retryErr(context.Background(), testPolicy(), func() error {
		calls++
		return conflict
	})

	assert.Equal(t, 1, calls)
	assert.Same(t, conflict, err)
}

func TestRetry_ExhaustsPolicy(t *testing.T) {
	calls := 0
	err := retryErr(context.Background(), testPolicy(), func() error {
		calls++
		return NewError(KindSourceUnavailable, OpList, "", errors.New("timeout"))
	})

	assert.Equal(t, 3, calls)
	assert.True(t, IsKind(err, KindSourceUnavailable))
}

func TestRetry_ZeroRetries(t *testing.T) {
	calls := 0
	_ = retryErr(context.Background(), RetryPolicy{}, func() error {
		calls++
		return NewError(KindSourceUnavailable, OpList, "", errors.New("timeout"))
	})
	assert.Equal(t, 1, calls)
}

func TestRetry_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retryErr(ctx, RetryPolicy{MaxRetries: 10, InitialInterval: time.Millisecond}, func() error {
		calls++
		cancel()
		return NewError(KindMirrorUnavailable, OpDelete, "a", errors.New("503"))
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}
