package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "wbprivacy/pkg/errors"
)

// Strategy names accepted in config and on the command line
const (
	StrategyFixed   = "fixed"
	StrategyBackoff = "backoff"
)

// backoffFloor is the smallest gap the backoff strategy grows from when the
// configured interval is zero
const backoffFloor = time.Second

// DefaultMaxDelay caps the backoff strategy when no ceiling is configured
const DefaultMaxDelay = 2 * time.Minute

// Pacer decides when the next request may go out
type Pacer interface {
	// Wait blocks until the next request is allowed or ctx is done
	Wait(ctx context.Context) error
	// Observe reports whether the request just made succeeded
	Observe(success bool)
}

// New builds the pacer named by strategy. An empty strategy means fixed.
func New(strategy string, interval, maxDelay time.Duration) (Pacer, error) {
	switch strategy {
	case "", StrategyFixed:
		return NewFixedPacer(interval), nil
	case StrategyBackoff:
		return NewBackoffPacer(interval, maxDelay), nil
	default:
		return nil, apperrors.Newf(apperrors.ErrorTypeConfig,
			"unknown pacing strategy %q (valid values: fixed, backoff)", strategy)
	}
}

// FixedPacer spaces requests a constant interval apart
type FixedPacer struct {
	limiter *rate.Limiter
}

// NewFixedPacer creates a pacer that allows one request per interval.
// A non-positive interval never blocks.
func NewFixedPacer(interval time.Duration) *FixedPacer {
	if interval <= 0 {
		return &FixedPacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &FixedPacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the interval since the previous request has passed.
// The limiter starts with one token, so the first call returns immediately.
func (p *FixedPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Observe is a no-op; a fixed pacer does not react to outcomes
func (p *FixedPacer) Observe(success bool) {}

// BackoffPacer widens the gap between requests while Weibo keeps failing
// them and narrows it back after a success.
type BackoffPacer struct {
	mu      sync.Mutex
	base    time.Duration
	max     time.Duration
	current time.Duration
	started bool
}

// NewBackoffPacer creates a pacer that starts at interval and doubles on
// every consecutive failure, never exceeding maxDelay.
func NewBackoffPacer(interval, maxDelay time.Duration) *BackoffPacer {
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}
	if interval > maxDelay {
		interval = maxDelay
	}
	return &BackoffPacer{
		base:    interval,
		max:     maxDelay,
		current: interval,
	}
}

// Wait blocks for the current gap. The first call returns immediately.
func (p *BackoffPacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	delay := p.current
	if !p.started {
		p.started = true
		delay = 0
	}
	p.mu.Unlock()

	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Observe doubles the gap on failure and restores the base on success.
// A zero base still backs off from one second so repeated failures slow
// the loop down.
func (p *BackoffPacer) Observe(success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if success {
		p.current = p.base
		return
	}

	next := p.current * 2
	if p.current <= 0 {
		next = backoffFloor
	}
	if next > p.max {
		next = p.max
	}
	p.current = next
}

// CurrentDelay reports the gap the next Wait will honor
func (p *BackoffPacer) CurrentDelay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// NopPacer never waits. Dry runs use it so previews finish instantly.
type NopPacer struct{}

// NewNopPacer creates a pacer that only fails when ctx is already done
func NewNopPacer() *NopPacer {
	return &NopPacer{}
}

// Wait returns immediately unless ctx is already done
func (p *NopPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}

// Observe is a no-op
func (p *NopPacer) Observe(success bool) {}
