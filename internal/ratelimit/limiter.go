// Package ratelimit throttles repeated operations with fixed windows.
package ratelimit

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxKeys bounds the number of tracked keys.
const DefaultMaxKeys = 10000

// Policy is a max-attempts-per-window rule.
type Policy struct {
	Max    int
	Window time.Duration
}

// DefaultPolicy allows ten attempts per minute.
var DefaultPolicy = Policy{Max: 10, Window: time.Minute}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter counts attempts per key in fixed windows, tracking at most maxKeys
// keys. A live window is never evicted: when every slot holds one, attempts
// for untracked keys are refused until a window expires.
type Limiter struct {
	mu      sync.Mutex
	windows *lru.Cache[string, window]
	maxKeys int
	now     func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates a Limiter tracking at most maxKeys keys.
func New(maxKeys int, opts ...Option) (*Limiter, error) {
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	cache, err := lru.New[string, window](maxKeys)
	if err != nil {
		return nil, err
	}
	l := &Limiter{windows: cache, maxKeys: maxKeys, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Allow records an attempt for key and reports whether it is within max
// attempts of the current window. A window starts on the first attempt and
// resets once the clock passes its end.
func (l *Limiter) Allow(key string, max int, period time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows.Get(key)
	if !ok && l.windows.Len() >= l.maxKeys && l.sweepLocked(now) == 0 {
		return false
	}
	if !ok || now.After(w.resetAt) {
		l.windows.Add(key, window{count: 1, resetAt: now.Add(period)})
		return true
	}
	if w.count >= max {
		return false
	}
	w.count++
	l.windows.Add(key, w)
	return true
}

// AllowPolicy is Allow with a Policy.
func (l *Limiter) AllowPolicy(key string, p Policy) bool {
	return l.Allow(key, p.Max, p.Window)
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windows.Remove(key)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.windows.Len()
}

// Sweep drops every expired window and returns how many were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sweepLocked(l.now())
}

func (l *Limiter) sweepLocked(now time.Time) int {
	removed := 0
	for _, key := range l.windows.Keys() {
		if w, ok := l.windows.Peek(key); ok && now.After(w.resetAt) {
			l.windows.Remove(key)
			removed++
		}
	}
	return removed
}
