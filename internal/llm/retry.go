package llm

import (
	"context"
	"time"
)

// Retry policy for transient collaborator failures: at most MaxAttempts
// calls, exponential backoff starting at InitialBackoff and capped at
// MaxBackoff. Structurally invalid responses must not be retried; only
// wrap the transport call itself.
const (
	MaxAttempts    = 3
	InitialBackoff = 2 * time.Second
	MaxBackoff     = 10 * time.Second
)

// Overridable in tests to avoid multi-second sleeps.
var (
	initialBackoff = InitialBackoff
	maxBackoff     = MaxBackoff
)

// Retry invokes fn up to MaxAttempts times, sleeping with exponential
// backoff between attempts. It returns nil on the first success, the last
// error once attempts are exhausted, or the context error if the context
// is cancelled while waiting.
func Retry(ctx context.Context, fn func() error) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	return lastErr
}
