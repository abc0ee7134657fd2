// Package ratelimit implements a fixed-window request counter keyed by
// (action, principal).
//
// The algorithm is a fixed window counter rather than a sliding window or
// token bucket: O(1) memory and check cost per key, at the cost of allowing
// up to a 2x burst straddling a window boundary. That tradeoff fits the goal
// here (abuse and cost mitigation), which does not require precise fairness.
//
// Counters live in a process-local map, so enforcement is per-instance and
// resets on restart. Horizontally scaled deployments that need global limits
// should construct the handlers against a distributed implementation instead;
// the Limiter is injected, not global, precisely so it can be swapped.
//
// The Limiter is safe for concurrent use.
package ratelimit

import (
	"sync"
	"time"
)

// sweepInterval bounds how often Check scans the whole map for expired
// entries. Between sweeps the only extra cost per call is a time comparison.
const sweepInterval = 5 * time.Minute

// Config is the fixed-window policy for one action.
type Config struct {
	// MaxRequests is the number of requests allowed per window. Must be > 0.
	MaxRequests int
	// Window is the length of the counting window. Must be > 0.
	Window time.Duration
}

// DefaultConfig applies to actions with no named policy.
var DefaultConfig = Config{MaxRequests: 60, Window: time.Minute}

// Decision is the outcome of a rate-limit check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// Limit is the window capacity of the policy that was applied.
	Limit int
	// Remaining is the quota left in the current window (0 when denied).
	Remaining int
	// ResetAt is when the current window ends.
	ResetAt time.Time
	// RetryAfter is the whole seconds until ResetAt, at least 1.
	// Only meaningful when Allowed is false.
	RetryAfter int
}

// entry tracks consumption for one (action, principal) key. Once resetAt has
// passed the entry is logically expired and is replaced, never incremented.
type entry struct {
	count   int
	resetAt time.Time
}

// Limiter enforces per-(action, principal) fixed-window limits.
//
// Construct one per process with New and share it across handlers.
type Limiter struct {
	mu        sync.Mutex
	entries   map[string]*entry
	policies  map[string]Config
	def       Config
	lastSweep time.Time

	// now is the clock; replaced in tests for deterministic windows.
	now func() time.Time
}

// New constructs a Limiter with the given per-action policies. Actions absent
// from policies fall back to def; a zero def falls back to DefaultConfig.
func New(policies map[string]Config, def Config) *Limiter {
	if def.MaxRequests <= 0 || def.Window <= 0 {
		def = DefaultConfig
	}
	l := &Limiter{
		entries:  make(map[string]*entry),
		policies: make(map[string]Config, len(policies)),
		def:      def,
		now:      time.Now,
	}
	for name, cfg := range policies {
		if cfg.MaxRequests > 0 && cfg.Window > 0 {
			l.policies[name] = cfg
		}
	}
	l.lastSweep = l.now()
	return l
}

// policy returns the config applied to action.
func (l *Limiter) policy(action string) Config {
	if cfg, ok := l.policies[action]; ok {
		return cfg
	}
	return l.def
}

// key builds the composite map key for an (action, principal) pair.
func key(action, principalID string) string {
	return action + ":" + principalID
}

// Check records one request for (principalID, action) under the action's
// policy and returns the decision. Counting and deciding are a single atomic
// step; two concurrent calls can never both consume the last slot.
func (l *Limiter) Check(principalID, action string) Decision {
	return l.CheckWith(principalID, action, l.policy(action))
}

// CheckWith is Check with an explicit config, overriding the policy table.
func (l *Limiter) CheckWith(principalID, action string, cfg Config) Decision {
	if cfg.MaxRequests <= 0 || cfg.Window <= 0 {
		cfg = l.def
	}
	now := l.now()
	k := key(action, principalID)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeSweep(now)

	e, ok := l.entries[k]
	if !ok || !e.resetAt.After(now) {
		// First request for this key, or the previous window has expired:
		// start a fresh window.
		e = &entry{count: 1, resetAt: now.Add(cfg.Window)}
		l.entries[k] = e
		return Decision{
			Allowed:   true,
			Limit:     cfg.MaxRequests,
			Remaining: cfg.MaxRequests - 1,
			ResetAt:   e.resetAt,
		}
	}

	if e.count >= cfg.MaxRequests {
		return Decision{
			Allowed:    false,
			Limit:      cfg.MaxRequests,
			Remaining:  0,
			ResetAt:    e.resetAt,
			RetryAfter: retryAfter(e.resetAt, now),
		}
	}

	e.count++
	return Decision{
		Allowed:   true,
		Limit:     cfg.MaxRequests,
		Remaining: cfg.MaxRequests - e.count,
		ResetAt:   e.resetAt,
	}
}

// Peek reports the decision the next Check would return for the key without
// consuming quota. Intended for ops introspection and tests.
func (l *Limiter) Peek(principalID, action string) Decision {
	cfg := l.policy(action)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key(action, principalID)]
	if !ok || !e.resetAt.After(now) {
		return Decision{
			Allowed:   true,
			Limit:     cfg.MaxRequests,
			Remaining: cfg.MaxRequests,
			ResetAt:   now.Add(cfg.Window),
		}
	}
	if e.count >= cfg.MaxRequests {
		return Decision{
			Allowed:    false,
			Limit:      cfg.MaxRequests,
			Remaining:  0,
			ResetAt:    e.resetAt,
			RetryAfter: retryAfter(e.resetAt, now),
		}
	}
	return Decision{
		Allowed:   true,
		Limit:     cfg.MaxRequests,
		Remaining: cfg.MaxRequests - e.count,
		ResetAt:   e.resetAt,
	}
}

// Reset clears the entry for one (action, principal) pair, restoring its full
// quota immediately.
func (l *Limiter) Reset(principalID, action string) {
	l.mu.Lock()
	delete(l.entries, key(action, principalID))
	l.mu.Unlock()
}

// Len returns the number of live entries. Exposed for tests and metrics.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// maybeSweep drops expired entries when at least sweepInterval has elapsed
// since the last sweep, bounding memory growth from abandoned keys. Callers
// must hold l.mu.
func (l *Limiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	for k, e := range l.entries {
		if !e.resetAt.After(now) {
			delete(l.entries, k)
		}
	}
	l.lastSweep = now
}

// retryAfter returns ceil(resetAt-now in seconds), minimum 1.
func retryAfter(resetAt, now time.Time) int {
	d := resetAt.Sub(now)
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
