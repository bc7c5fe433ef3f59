package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// defaultMaxAttempts is the shared attempt ceiling for Summarize calls.
const defaultMaxAttempts = 3

// backoffDelays is the fixed escalating delay table. Retry n waits
// backoffDelays[n-1], clamped to the last entry. Not exponential: the
// original schedule is part of the external behavior.
var backoffDelays = [...]time.Duration{0, 500 * time.Millisecond, 1500 * time.Millisecond}

// withRetry executes op up to maxAttempts times, sleeping per the backoff
// table between attempts. Cancellation is checked before the first attempt
// and on both sides of every delay; a cancelled context short-circuits with
// ctx.Err() and no further attempts. Terminal failures propagate
// immediately; the last retryable failure propagates once attempts are
// exhausted.
func withRetry[T any](ctx context.Context, maxAttempts int, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if attempt > 0 {
			if err := sleepContext(ctx, retryDelay(attempt)); err != nil {
				return zero, err
			}
		}

		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			// The call failed because the caller gave up, not because
			// the provider did. Surface cancellation, never retry.
			return zero, ctxErr
		}
		lastErr = err
		if !isRetryable(err) {
			return zero, err
		}
	}
	return zero, lastErr
}

// retryDelay returns the wait before retry n (n >= 1).
func retryDelay(n int) time.Duration {
	idx := n - 1
	if idx >= len(backoffDelays) {
		idx = len(backoffDelays) - 1
	}
	return backoffDelays[idx]
}

// sleepContext waits d or until ctx is cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return ctx.Err()
	}
}

// isRetryable classifies a failure. Retryable: HTTP 429, any 5xx, and
// transport-level errors (timeouts, refused connections, DNS failures).
// Everything else — other 4xx, malformed responses, cancellation — is
// terminal.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
