// Package ratelimit implements fixed-window request counters keyed by rule and
// client. It is a hard gate: a denied call is rejected, never queued.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Rule bounds a client to Max calls per Window. Rules with different IDs are
// tracked by independent counters.
type Rule struct {
	ID     string
	Window time.Duration
	Max    int
}

// Decision is the outcome of a Consume call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long the client should wait before the window resets.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.ResetAt.Before(now) {
		return 0
	}
	return d.ResetAt.Sub(now)
}

type key struct {
	rule   string
	client string
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter holds process-wide counters. It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	windows map[key]*window
	now     func() time.Time
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock replaces the wall clock used for window accounting.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates an empty Limiter.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		windows: make(map[key]*window),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the limiter's current time.
func (l *Limiter) Now() time.Time {
	return l.now()
}

// Consume counts one call by client against rule.
func (l *Limiter) Consume(client string, rule Rule) Decision {
	now := l.now()
	k := key{rule: rule.ID, client: client}

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[k]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(rule.Window)}
		l.windows[k] = w
	}

	if w.count >= rule.Max {
		return Decision{Allowed: false, Limit: rule.Max, Remaining: 0, ResetAt: w.resetAt}
	}

	w.count++
	return Decision{Allowed: true, Limit: rule.Max, Remaining: rule.Max - w.count, ResetAt: w.resetAt}
}

// Sweep drops windows that have already reset and returns how many were removed.
func (l *Limiter) Sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked windows.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Run sweeps expired windows every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}
