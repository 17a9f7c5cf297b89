// ABOUTME: Backoff schedule for generation-service retries
// ABOUTME: Plugs the jittered exponential delay into cenkalti/backoff
package util

import (
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// CalculateBackoff returns exponential backoff with jitter
// Base delay is doubled each attempt, with random jitter up to 25%
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > 30*time.Second || backoff <= 0 {
		backoff = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2+1)) - backoff/4
	return backoff + jitter
}

// ExponentialBackOff drives backoff.Retry with CalculateBackoff's schedule
type ExponentialBackOff struct {
	BaseDelay time.Duration
	attempt   int
}

// NewExponentialBackOff returns a BackOff starting from baseDelay
func NewExponentialBackOff(baseDelay time.Duration) *ExponentialBackOff {
	return &ExponentialBackOff{BaseDelay: baseDelay}
}

// NextBackOff returns the wait before the next attempt
func (b *ExponentialBackOff) NextBackOff() time.Duration {
	b.attempt++
	return CalculateBackoff(b.BaseDelay, b.attempt)
}

// Reset restarts the schedule
func (b *ExponentialBackOff) Reset() {
	b.attempt = 0
}

var _ backoff.BackOff = (*ExponentialBackOff)(nil)
