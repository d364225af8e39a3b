// Package ratelimiter tracks a token bucket per key (IP or email) and
// evicts idle buckets after an expiration period.
package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter *rate.Limiter
	timer   *time.Timer
}

// KeyedLimiter manages one rate.Limiter per key.
type KeyedLimiter struct {
	mu             sync.RWMutex
	limiters       map[string]*entry
	rps            rate.Limit
	burst          int
	expirationTime time.Duration
}

func New(rps float64, burst int, expirationTime time.Duration) *KeyedLimiter {
	return &KeyedLimiter{
		limiters:       make(map[string]*entry),
		rps:            rate.Limit(rps),
		burst:          burst,
		expirationTime: expirationTime,
	}
}

// Allow reports whether the key may proceed, consuming one token if so.
func (kl *KeyedLimiter) Allow(key string) bool {
	return kl.getEntry(key).limiter.Allow()
}

func (kl *KeyedLimiter) getEntry(key string) *entry {
	kl.mu.RLock()
	e, exists := kl.limiters[key]
	kl.mu.RUnlock()

	if exists {
		e.timer.Reset(kl.expirationTime)
		return e
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()

	// Double-check after acquiring write lock
	if e, exists = kl.limiters[key]; exists {
		e.timer.Reset(kl.expirationTime)
		return e
	}

	e = &entry{limiter: rate.NewLimiter(kl.rps, kl.burst)}
	e.timer = time.AfterFunc(kl.expirationTime, func() {
		kl.mu.Lock()
		delete(kl.limiters, key)
		kl.mu.Unlock()
	})
	kl.limiters[key] = e
	return e
}

// Stop cancels all eviction timers.
func (kl *KeyedLimiter) Stop() {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	for _, e := range kl.limiters {
		e.timer.Stop()
	}
}
