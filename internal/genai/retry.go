package genai

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"
	"time"
)

// CalculateBackoff calculates the delay before the next retry attempt.
// Uses the Full Jitter algorithm:
//
//	delay = random(0, min(maxDelay, initialDelay * 2^(attempt-1)))
//
// Full Jitter spreads retries better than plain exponential backoff under
// contention.
func CalculateBackoff(attempt int, initial, max time.Duration) time.Duration {
	if attempt <= 0 {
		return 0 // No delay on first attempt
	}

	exp := math.Pow(2, float64(attempt-1))
	delay := time.Duration(float64(initial) * exp)

	if delay > max {
		delay = max
	}
	if delay <= 0 {
		return 0
	}

	// Use crypto/rand for uniform distribution without bias
	maxNs := big.NewInt(int64(delay))
	jitterBig, err := rand.Int(rand.Reader, maxNs)
	if err != nil {
		// Fallback to half delay on crypto failure (extremely rare)
		return delay / 2
	}

	return time.Duration(jitterBig.Int64())
}

// Sleep waits for the specified duration, respecting context cancellation.
// Returns ctx.Err() if context is cancelled during sleep.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
