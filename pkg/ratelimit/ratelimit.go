package ratelimit

import (
	"context"
	"math/rand"
	"time"
)

// Limiter paces outbound requests, incorporating optional jitter so fetches
// don't land on the origin at a metronomic interval. It is safe for
// concurrent use by multiple goroutines.
type Limiter struct {
	ticker   *time.Ticker
	jitter   float64 // 0.0 to 1.0
	interval time.Duration
	ch       <-chan time.Time
}

// NewLimiter creates a new limiter with the given requests per second (rps)
// and jitter factor. Jitter is clamped to [0, 1]. If rps is <= 0, the
// limiter does not block.
func NewLimiter(rps float64, jitter float64) *Limiter {
	if rps <= 0 {
		return &Limiter{jitter: jitter}
	}

	if jitter < 0 {
		jitter = 0
	} else if jitter > 1 {
		jitter = 1
	}

	interval := time.Duration(float64(time.Second) / rps)
	ticker := time.NewTicker(interval)

	return &Limiter{
		ticker:   ticker,
		jitter:   jitter,
		interval: interval,
		ch:       ticker.C,
	}
}

// Wait blocks until it is time to perform the next operation, or until the
// context is canceled. It applies jitter to the sleep time if configured.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.ch == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ch:
		if l.jitter > 0 {
			// Random jitter between +/- (jitter * interval). A negative draw
			// means "run immediately on the tick": the ticker already
			// enforces the minimum spacing, so only positive draws sleep.
			factor := (rand.Float64() * 2) - 1.0
			extra := time.Duration(float64(l.interval) * l.jitter * factor)
			if extra > 0 {
				select {
				case <-time.After(extra):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return nil
}

// Stop releases any resources associated with the limiter.
func (l *Limiter) Stop() {
	if l.ticker != nil {
		l.ticker.Stop()
	}
}
