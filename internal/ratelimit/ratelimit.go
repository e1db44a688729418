package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Limiter implements a simple in-memory sliding window rate limiter
type Limiter struct {
	mu       sync.RWMutex
	counters map[string]*counter
	window   time.Duration
	max      int
}

type counter struct {
	count     int
	expiresAt time.Time
}

// NewLimiter creates a new rate limiter with the specified window and max requests
func NewLimiter(window time.Duration, max int) *Limiter {
	l := &Limiter{
		counters: make(map[string]*counter),
		window:   window,
		max:      max,
	}
	go l.cleanup()
	return l
}

// Allow checks if a request for the given key is allowed
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, exists := l.counters[key]

	if !exists || now.After(c.expiresAt) {
		l.counters[key] = &counter{
			count:     1,
			expiresAt: now.Add(l.window),
		}
		return true
	}

	if c.count >= l.max {
		return false
	}

	c.count++
	return true
}

// GetRemaining returns the number of remaining requests for the given key
func (l *Limiter) GetRemaining(key string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	now := time.Now()
	c, exists := l.counters[key]

	if !exists || now.After(c.expiresAt) {
		return l.max
	}

	remaining := l.max - c.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanup periodically removes expired counters
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, c := range l.counters {
			if now.After(c.expiresAt) {
				delete(l.counters, key)
			}
		}
		l.mu.Unlock()
	}
}

// ReportLimiter throttles report generation per acting admin. Comparison
// reports fan out into several aggregation queries each, so a single actor
// hammering the endpoint can saturate the database pool.
type ReportLimiter struct {
	actors *Limiter
}

// NewReportLimiter creates a limiter allowing max reports per actor per window
func NewReportLimiter(window time.Duration, max int) *ReportLimiter {
	return &ReportLimiter{actors: NewLimiter(window, max)}
}

// CheckActor verifies if the given admin may request another report
func (r *ReportLimiter) CheckActor(email string) error {
	if !r.actors.Allow(email) {
		return fmt.Errorf("too many report requests, please try again later")
	}
	return nil
}

// Remaining returns how many report requests the actor has left in the window
func (r *ReportLimiter) Remaining(email string) int {
	return r.actors.GetRemaining(email)
}
