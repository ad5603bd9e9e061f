package gateway

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

const maxShift = 62

// exponentialBackoff is base * 2^attempt, saturating at MaxInt64.
func exponentialBackoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}

	if attempt < 0 {
		attempt = 0
	} else if attempt > maxShift {
		attempt = maxShift
	}

	multiplier := int64(1 << attempt)
	if int64(base) > math.MaxInt64/multiplier {
		return time.Duration(math.MaxInt64)
	}
	return base * time.Duration(multiplier)
}

// exponentialWithJitter returns a random duration in [0, base * 2^attempt).
func exponentialWithJitter(base time.Duration, attempt int) time.Duration {
	delay := exponentialBackoff(base, attempt)
	if delay <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(delay))) // #nosec G404 -- jitter only
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context done: %w", ctx.Err())
	}
}
