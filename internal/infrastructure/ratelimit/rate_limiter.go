package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	ActionPlaceBid    = "place_bid"
	ActionRequestChat = "request_chat"
)

// Limiter decides whether userID may perform action right now. When it may
// not, the returned duration says how long until the next token.
type Limiter interface {
	Allow(ctx context.Context, userID, action string) (bool, time.Duration, error)
}

// Policy describes one token bucket: Capacity tokens at most, refilled by
// RefillTokens every RefillInterval.
type Policy struct {
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
}

func PolicyFor(action string) Policy {
	switch action {
	case ActionPlaceBid:
		// 10 bids in a burst, then one every 3 seconds
		return Policy{Capacity: 10, RefillTokens: 1, RefillInterval: 3 * time.Second}
	case ActionRequestChat:
		// 5 chat requests in a burst, then one every 12 seconds
		return Policy{Capacity: 5, RefillTokens: 1, RefillInterval: 12 * time.Second}
	default:
		return Policy{Capacity: 20, RefillTokens: 1, RefillInterval: 3 * time.Second}
	}
}

// TokenBucket represents a token bucket for rate limiting
type TokenBucket struct {
	tokens     int
	maxTokens  int
	refillRate int
	refillTime time.Duration
	lastRefill time.Time
	lastUsed   time.Time
	mutex      sync.Mutex
}

func NewTokenBucket(policy Policy, now time.Time) *TokenBucket {
	return &TokenBucket{
		tokens:     policy.Capacity,
		maxTokens:  policy.Capacity,
		refillRate: policy.RefillTokens,
		refillTime: policy.RefillInterval,
		lastRefill: now,
		lastUsed:   now,
	}
}

// Take refills the bucket for the time elapsed since the last refill and
// consumes a token if one is available.
func (tb *TokenBucket) Take(now time.Time) (bool, time.Duration) {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	tb.lastUsed = now

	if tb.refillTime > 0 && tb.refillRate > 0 {
		intervals := int(now.Sub(tb.lastRefill) / tb.refillTime)
		if intervals > 0 {
			tb.tokens += intervals * tb.refillRate
			if tb.tokens > tb.maxTokens {
				tb.tokens = tb.maxTokens
			}
			tb.lastRefill = tb.lastRefill.Add(time.Duration(intervals) * tb.refillTime)
		}
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}

	wait := tb.lastRefill.Add(tb.refillTime).Sub(now)
	if wait < 0 {
		wait = 0
	}
	return false, wait
}

func (tb *TokenBucket) Tokens() int {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	return tb.tokens
}

func (tb *TokenBucket) idleSince(now time.Time) time.Duration {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	return now.Sub(tb.lastUsed)
}

// RateLimiter keeps one in-process bucket per user and action. It is enough
// for a single instance; RedisLimiter shares the buckets across instances.
type RateLimiter struct {
	buckets map[string]*TokenBucket
	mutex   sync.RWMutex
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*TokenBucket),
		now:     time.Now,
	}
}

func (rl *RateLimiter) Allow(ctx context.Context, userID, action string) (bool, time.Duration, error) {
	key := userID + ":" + action
	now := rl.now()

	rl.mutex.RLock()
	bucket, exists := rl.buckets[key]
	rl.mutex.RUnlock()

	if !exists {
		rl.mutex.Lock()
		if bucket, exists = rl.buckets[key]; !exists {
			bucket = NewTokenBucket(PolicyFor(action), now)
			rl.buckets[key] = bucket
		}
		rl.mutex.Unlock()
	}

	allowed, wait := bucket.Take(now)
	return allowed, wait, nil
}

// Cleanup drops buckets unused for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	removed := 0
	for key, bucket := range rl.buckets {
		if bucket.idleSince(now) > maxIdle {
			delete(rl.buckets, key)
			removed++
		}
	}
	return removed
}

// StartCleanupRoutine runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup(maxIdle)
			}
		}
	}()
}
