package util

import (
	"sync"
	"time"
)

// LimiterRegistry hands out one Limiter per key, typically a client IP, and
// forgets keys that stay idle past the ttl so the map does not grow with
// every client ever seen.
type LimiterRegistry struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     float64
	burst    int
	ttl      time.Duration

	sweepStop chan struct{}
	sweepDone chan struct{}
}

type limiterEntry struct {
	limiter  *Limiter
	lastUsed time.Time
}

func NewLimiterRegistry(r float64, b int, ttl time.Duration) *LimiterRegistry {
	reg := &LimiterRegistry{
		limiters:  make(map[string]*limiterEntry),
		rate:      r,
		burst:     b,
		ttl:       ttl,
		sweepStop: make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
	go reg.sweepLoop()
	return reg
}

// Get returns the limiter for key, creating it on first use.
func (r *LimiterRegistry) Get(key string) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: NewLimiter(r.rate, r.burst)}
		r.limiters[key] = entry
	}
	entry.lastUsed = time.Now()
	return entry.limiter
}

// Close stops the idle sweeper.
func (r *LimiterRegistry) Close() {
	close(r.sweepStop)
	<-r.sweepDone
}

func (r *LimiterRegistry) sweepLoop() {
	defer close(r.sweepDone)

	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.sweepStop:
			return
		}
	}
}

func (r *LimiterRegistry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for key, entry := range r.limiters {
		if now.Sub(entry.lastUsed) > r.ttl {
			delete(r.limiters, key)
		}
	}
}
