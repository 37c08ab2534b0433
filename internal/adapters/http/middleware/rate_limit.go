package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/ledgerhub/internal/adapters/http/common"
)

// RateLimitConfig configures request throttling.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyFunc derives the throttling key; defaults to client IP.
	KeyFunc func(*gin.Context) string
}

// DefaultRateLimitConfig returns per-IP limiting of 100 req/min.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Limit:  100,
		Window: time.Minute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// rateLimiter is an in-memory fixed-window counter. Distributed
// limiting would need shared state; a single node is fine for the
// abuse protection this provides.
type rateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  *RateLimitConfig
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

func newRateLimiter(config *RateLimitConfig) *rateLimiter {
	rl := &rateLimiter{
		buckets: make(map[string]*bucket),
		config:  config,
	}

	go rl.cleanup()

	return rl
}

// allow reports whether the request fits in the current window and
// returns the remaining budget and time until reset.
func (rl *rateLimiter) allow(key string) (bool, int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, exists := rl.buckets[key]

	if !exists {
		rl.buckets[key] = &bucket{
			tokens:    rl.config.Limit - 1,
			lastReset: now,
		}
		return true, rl.config.Limit - 1, rl.config.Window
	}

	if now.Sub(b.lastReset) >= rl.config.Window {
		b.tokens = rl.config.Limit - 1
		b.lastReset = now
		return true, b.tokens, rl.config.Window
	}

	retryAfter := rl.config.Window - now.Sub(b.lastReset)
	if b.tokens <= 0 {
		return false, 0, retryAfter
	}

	b.tokens--
	return true, b.tokens, retryAfter
}

// cleanup drops buckets idle for two windows.
func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(rl.config.Window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, b := range rl.buckets {
			if now.Sub(b.lastReset) > rl.config.Window*2 {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit throttles requests per key with a fixed window counter.
// Rejections answer 429 with X-RateLimit-* and Retry-After headers.
func RateLimit(config *RateLimitConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	limiter := newRateLimiter(config)

	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		allowed, remaining, retryAfter := limiter.allow(key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(retryAfter).Unix(), 10))

		if !allowed {
			retrySeconds := int(retryAfter.Seconds())
			if retrySeconds < 1 {
				retrySeconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(retrySeconds))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorEnvelope{
				StatusCode: http.StatusTooManyRequests,
				Error:      "too-many-requests",
				Message:    "rate limit exceeded, please try again later",
				Details:    map[string]any{"retry_after": retrySeconds},
			})
			return
		}

		c.Next()
	}
}

// FinancialOpsRateLimit throttles money-movement endpoints (proposal
// creation and start, hold writes) with a tighter per-caller budget.
// Authenticated callers are keyed by tenant and user, anonymous ones
// by IP.
func FinancialOpsRateLimit(limit int) gin.HandlerFunc {
	if limit <= 0 {
		limit = 30
	}
	return RateLimit(&RateLimitConfig{
		Limit:  limit,
		Window: time.Minute,
		KeyFunc: func(c *gin.Context) string {
			if authz, ok := GetAuthorization(c); ok {
				return authz.BusinessName() + ":" + authz.UserID.String()
			}
			return "ip:" + c.ClientIP()
		},
	})
}
