package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type keyLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LoginThrottle is a token bucket per client key, used to slow down
// credential guessing on the login endpoint.
type LoginThrottle struct {
	limit rate.Limit
	burst int
	idle  time.Duration

	mu       sync.RWMutex
	limiters map[string]*keyLimiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewLoginThrottle allows perMinute attempts per key with the given burst.
// Keys untouched for idle are dropped by the background sweep.
func NewLoginThrottle(perMinute, burst int, idle time.Duration) *LoginThrottle {
	if perMinute < 1 {
		perMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	lt := &LoginThrottle{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		idle:     idle,
		limiters: make(map[string]*keyLimiter),
		stopCh:   make(chan struct{}),
	}
	if idle > 0 {
		go lt.cleanupLoop()
	}
	return lt
}

func (lt *LoginThrottle) Allow(key string) bool {
	return lt.getOrCreate(key).Allow()
}

func (lt *LoginThrottle) Len() int {
	lt.mu.RLock()
	defer lt.mu.RUnlock()
	return len(lt.limiters)
}

func (lt *LoginThrottle) Stop() {
	lt.stopOnce.Do(func() { close(lt.stopCh) })
}

func (lt *LoginThrottle) getOrCreate(key string) *rate.Limiter {
	lt.mu.RLock()
	kl, ok := lt.limiters[key]
	lt.mu.RUnlock()

	if ok {
		lt.mu.Lock()
		kl.lastAccess = time.Now()
		lt.mu.Unlock()
		return kl.limiter
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()

	// Double check after taking the write lock.
	if kl, ok := lt.limiters[key]; ok {
		kl.lastAccess = time.Now()
		return kl.limiter
	}

	l := rate.NewLimiter(lt.limit, lt.burst)
	lt.limiters[key] = &keyLimiter{limiter: l, lastAccess: time.Now()}
	return l
}

func (lt *LoginThrottle) cleanupLoop() {
	ticker := time.NewTicker(lt.idle)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lt.cleanup()
		case <-lt.stopCh:
			return
		}
	}
}

func (lt *LoginThrottle) cleanup() {
	cutoff := time.Now().Add(-lt.idle)

	lt.mu.Lock()
	defer lt.mu.Unlock()

	for key, kl := range lt.limiters {
		if kl.lastAccess.Before(cutoff) {
			delete(lt.limiters, key)
		}
	}
}
