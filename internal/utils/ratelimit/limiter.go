// Package ratelimit provides per-client request budgets for protecting API endpoints.
// Each client gets a token bucket from golang.org/x/time/rate that refills
// evenly over a window, so a budget of N requests per window allows bursts of N.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Rate is a request budget: Limit requests per Window.
type Rate struct {
	// Limit is the number of requests allowed per window. Zero or less disables limiting.
	Limit int

	// Window is the period over which Limit requests are allowed
	Window time.Duration
}

// Every returns the token refill interval for the budget.
func (r Rate) Every() rate.Limit {
	if r.Limit <= 0 || r.Window <= 0 {
		return rate.Inf
	}
	return rate.Every(r.Window / time.Duration(r.Limit))
}

// Limiter is the token bucket of one client in one category.
type Limiter struct {
	limiter *rate.Limiter
	budget  Rate

	mu       sync.Mutex
	lastSeen time.Time
}

// NewLimiter creates a limiter holding a full bucket for the given budget.
//
// Parameters:
//   - budget: The request budget to enforce
//
// Returns:
//   - A configured rate limiter
func NewLimiter(budget Rate) *Limiter {
	return &Limiter{
		limiter:  rate.NewLimiter(budget.Every(), budget.Limit),
		budget:   budget,
		lastSeen: time.Now(),
	}
}

// Allow consumes one token if available and reports whether the request may proceed.
func (l *Limiter) Allow() bool {
	return l.AllowAt(time.Now())
}

// AllowAt is Allow evaluated at the given instant.
func (l *Limiter) AllowAt(now time.Time) bool {
	l.touch(now)
	return l.limiter.AllowN(now, 1)
}

// Remaining returns the number of whole requests left in the bucket.
func (l *Limiter) Remaining() int {
	return l.RemainingAt(time.Now())
}

// RemainingAt is Remaining evaluated at the given instant.
func (l *Limiter) RemainingAt(now time.Time) int {
	if l.limiter.Limit() == rate.Inf {
		return l.budget.Limit
	}
	tokens := l.limiter.TokensAt(now)
	if tokens < 0 {
		return 0
	}
	return int(math.Floor(tokens))
}

// RetryAfter returns how long a client has to wait for the next token.
func (l *Limiter) RetryAfter() time.Duration {
	return l.RetryAfterAt(time.Now())
}

// RetryAfterAt is RetryAfter evaluated at the given instant.
func (l *Limiter) RetryAfterAt(now time.Time) time.Duration {
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}
	missing := 1 - l.limiter.TokensAt(now)
	if missing <= 0 {
		return 0
	}
	return time.Duration(missing / float64(limit) * float64(time.Second))
}

// Budget returns the request budget this limiter enforces.
func (l *Limiter) Budget() Rate {
	return l.budget
}

func (l *Limiter) touch(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.After(l.lastSeen) {
		l.lastSeen = now
	}
}

func (l *Limiter) idleSince(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return now.Sub(l.lastSeen)
}
