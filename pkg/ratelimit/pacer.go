// Package ratelimit paces outbound requests. The hh.ru API has no error
// budget headers to track; politeness means a fixed minimum interval between
// successive requests, plus backoff on error responses (handled by the
// client). Pacing here is cooperative and advisory, not adaptive.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// MinDetailInterval is the floor for the pause after each per-vacancy detail
// request. The configured inter-request delay applies when it is larger.
const MinDetailInterval = 250 * time.Millisecond

// Pacer enforces a minimum interval between successive requests. The first
// request is never delayed.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a pacer with the given minimum interval. A non-positive
// interval disables waiting.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next request slot opens or the context is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// DetailInterval applies the MinDetailInterval floor to the configured
// inter-request delay.
func DetailInterval(configured time.Duration) time.Duration {
	if configured < MinDetailInterval {
		return MinDetailInterval
	}
	return configured
}

// Sleep pauses for d respecting context cancellation. Used to pace the
// stream after each detail fetch.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
