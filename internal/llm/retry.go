package llm

import (
	"context"
	"time"
)

// RetryPolicy is the single explicit retry contract shared by the gateway
// and the conversation controller, parameterized differently per layer so
// the two budgets stay visible in one place instead of compounding silently.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget, first try included.
	MaxAttempts int
	// Backoff returns the delay before the given retry attempt (1-based,
	// counting the attempt that just failed).
	Backoff func(attempt int) time.Duration
	// Retryable decides whether a failure is worth another attempt.
	Retryable func(err error) bool
}

// LinearBackoff grows the delay by unit per failed attempt.
func LinearBackoff(unit time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * unit
	}
}

// GatewayRetryPolicy is the provider-side budget: 3 attempts total with
// attempt x 2s backoff, retrying throttling, timeouts and transient failures.
func GatewayRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     LinearBackoff(2 * time.Second),
		Retryable:   IsRetryable,
	}
}

// Do runs fn under the policy, sleeping between attempts. The context is
// checked before every retry so cancellation cuts the loop short.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt == p.MaxAttempts || p.Retryable == nil || !p.Retryable(err) {
			return err
		}

		delay := time.Duration(0)
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
	}
	return err
}
