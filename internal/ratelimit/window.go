// Package ratelimit provides the in-process limiters guarding the admin surface and login.
package ratelimit

import (
	"sync"
	"time"
)

type Config struct {
	// Limit is the number of requests allowed per Window for a single key.
	Limit  int
	Window time.Duration
	// CleanupInterval enables the background sweep of idle keys when > 0.
	CleanupInterval time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// SlidingWindow keeps the timestamps of recent requests per key and rejects
// a request once Limit of them fall inside the trailing Window. State is
// process-local and lost on restart.
type SlidingWindow struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewSlidingWindow(cfg Config) *SlidingWindow {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	sw := &SlidingWindow{
		limit:  cfg.Limit,
		window: cfg.Window,
		now:    cfg.Now,
		hits:   make(map[string][]time.Time),
		stopCh: make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go sw.cleanupLoop(cfg.CleanupInterval)
	}
	return sw
}

// Allow records a request for key if it fits in the window. When it does not,
// retryAfter is the time until the oldest recorded request leaves the window.
func (sw *SlidingWindow) Allow(key string) (allowed bool, retryAfter time.Duration) {
	now := sw.now()

	sw.mu.Lock()
	defer sw.mu.Unlock()

	recent := sw.prune(sw.hits[key], now)
	if len(recent) >= sw.limit {
		sw.hits[key] = recent
		return false, sw.window - now.Sub(recent[0])
	}

	sw.hits[key] = append(recent, now)
	return true, 0
}

// Remaining reports how many more requests key may make right now.
func (sw *SlidingWindow) Remaining(key string) int {
	now := sw.now()

	sw.mu.Lock()
	defer sw.mu.Unlock()

	n := sw.limit - len(sw.prune(sw.hits[key], now))
	if n < 0 {
		return 0
	}
	return n
}

func (sw *SlidingWindow) Limit() int {
	return sw.limit
}

// Sweep drops keys whose timestamps have all left the window.
func (sw *SlidingWindow) Sweep() {
	now := sw.now()

	sw.mu.Lock()
	defer sw.mu.Unlock()

	for key, ts := range sw.hits {
		recent := sw.prune(ts, now)
		if len(recent) == 0 {
			delete(sw.hits, key)
			continue
		}
		sw.hits[key] = recent
	}
}

// Len returns the number of tracked keys.
func (sw *SlidingWindow) Len() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return len(sw.hits)
}

func (sw *SlidingWindow) Stop() {
	sw.stopOnce.Do(func() { close(sw.stopCh) })
}

// prune returns the suffix of ts still inside the window. ts is sorted ascending.
func (sw *SlidingWindow) prune(ts []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(ts) && now.Sub(ts[i]) >= sw.window {
		i++
	}
	return ts[i:]
}

func (sw *SlidingWindow) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sw.Sweep()
		case <-sw.stopCh:
			return
		}
	}
}
