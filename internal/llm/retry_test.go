package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff(t *testing.T) {
	t.Helper()
	oldInitial, oldMax := initialBackoff, maxBackoff
	initialBackoff = time.Millisecond
	maxBackoff = 5 * time.Millisecond
	t.Cleanup(func() {
		initialBackoff, maxBackoff = oldInitial, oldMax
	})
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	fastBackoff(t)

	calls := 0
	sentinel := errors.New("transport down")
	err := Retry(context.Background(), func() error {
		calls++
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, MaxAttempts, calls)
}

func TestRetry_RecoverOnSecondAttempt(t *testing.T) {
	fastBackoff(t)

	calls := 0
	err := Retry(context.Background(), func() error {
		calls++
		if calls < 2 {
			return errors.New("timeout")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, func() error {
		calls++
		return errors.New("never retried")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}
