package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/usage"
	"go-ats-backend/pkg/logger"
	"go-ats-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for burst rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix in the store (default: "rl:ip:")
	KeyPrefix string
	// Reject requests when the primary store is unavailable
	FailClosed bool
	// Primary store, in-memory when nil
	Store domain.UsageStore
	// Used when Store errors and FailClosed is false
	Fallback domain.UsageStore
	// Optional security event logger
	SecurityLogger *security.SecurityLogger
	// Sweep period for in-memory stores (default: 5 minutes)
	CleanupInterval time.Duration
	// Stops the sweeper when done (default: runs for the process lifetime)
	Context context.Context
}

// DefaultRateLimitConfig returns sensible defaults for API rate limiting
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:      100,             // 100 requests
		Window:     1 * time.Minute, // per minute
		KeyPrefix:       "rl:ip:",
		FailClosed:      false, // Fail open by default for availability
		CleanupInterval: 5 * time.Minute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimitMiddleware counts every request first and rejects once the count
// exceeds the limit. In-memory stores are swept with config.Window, so they
// must not be shared with limiters using another window.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	store := config.Store
	if store == nil {
		store = usage.NewMemoryStore()
	}
	fallback := config.Fallback
	if fallback == nil {
		fallback = usage.NewMemoryStore()
	}

	startCleanup(config, store, fallback)

	limiter := usage.NewLimiter(store, config.Limit, config.Window,
		usage.WithKeyPrefix(config.KeyPrefix),
		usage.WithFallback(fallback),
		usage.WithLogger(logger.Log),
	)

	return func(c *gin.Context) {
		key := config.KeyFunc(c)

		var status domain.LimitStatus
		if config.FailClosed {
			var err error
			status, err = limiter.TryIncrement(c.Request.Context(), key)
			if err != nil {
				logger.Log.Error("Rate limit store unavailable", "error", err)
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
		} else {
			status = limiter.Increment(c.Request.Context(), key)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(status.Remaining))
		c.Header("X-RateLimit-Reset", status.ResetAt.UTC().Format(time.RFC3339))

		if status.Count > config.Limit {
			retryAfter := int(time.Until(status.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			config.SecurityLogger.LogRateLimitTriggered(c.Request.Context(), RequestMeta(c), c.FullPath())

			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// startCleanup removes expired burst entries so idle client IPs do not pile up
func startCleanup(config RateLimitConfig, stores ...domain.UsageStore) {
	ctx := config.Context
	if ctx == nil {
		ctx = context.Background()
	}
	interval := config.CleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	for _, s := range stores {
		if mem, ok := s.(*usage.MemoryStore); ok {
			mem.StartJanitor(ctx, interval, config.Window, nil)
		}
	}
}

// RequestMeta collects request identifiers for security events
func RequestMeta(c *gin.Context) security.RequestMeta {
	return security.RequestMeta{
		ClientKey: GetClientKey(c),
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: GetRequestID(c),
	}
}
