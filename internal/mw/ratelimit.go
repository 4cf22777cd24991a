package mw

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// KeyedRateLimiter stores a token bucket per key (IP address or user id).
// Idle buckets expire so the registry does not grow without bound.
type KeyedRateLimiter struct {
	buckets *cache.Cache
	r       rate.Limit
	b       int
}

// NewKeyedRateLimiter creates a limiter registry allowing r events/sec with
// the given burst per key.
func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		buckets: cache.New(10*time.Minute, 15*time.Minute),
		r:       r,
		b:       b,
	}
}

// GetLimiter returns the bucket for a key, creating it on first use.
func (k *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	if v, ok := k.buckets.Get(key); ok {
		return v.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(k.r, k.b)
	if err := k.buckets.Add(key, limiter, cache.DefaultExpiration); err != nil {
		// Lost the insert race; use the bucket that got there first.
		if v, ok := k.buckets.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// Allow reports whether an event for the key fits the limit.
func (k *KeyedRateLimiter) Allow(key string) bool {
	return k.GetLimiter(key).Allow()
}

// perMinute converts a requests-per-minute budget to a limiter rate.
func perMinute(n int) rate.Limit {
	return rate.Limit(float64(n) / 60.0)
}

// RateLimitByIP rejects requests exceeding n per minute from one address.
func RateLimitByIP(n int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(perMinute(n), n)
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// RateLimitByUser rejects requests exceeding n per minute per authenticated
// identity. Must run after Auth; unauthenticated requests fall back to the
// client address as the key.
func RateLimitByUser(n int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(perMinute(n), n)
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, ok := UserID(c); ok {
			key = "user:" + strconv.FormatInt(userID, 10)
		}
		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
