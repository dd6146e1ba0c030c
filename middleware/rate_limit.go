package middleware

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// SearchRateLimiter caps calls to a quota-bound endpoint per console
// session (or client IP without a session) using Redis INCR and EXPIRE.
// A nil client or a zero limit disables the check; Redis failures let the
// request through.
func SearchRateLimiter(redisClient *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil || limit <= 0 {
			c.Next()
			return
		}

		subject := SessionID(c)
		if subject == "" {
			subject = getClientIP(c)
		}
		key := fmt.Sprintf("ratelimit:search:%s", subject)
		ctx := c.Request.Context()

		pipe := redisClient.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.GetLogger().Warnw("Rate limit check failed", "key", key, "error", err)
			c.Next()
			return
		}

		count := incr.Val()
		if count > int64(limit) {
			retryAfter := int(window.Seconds())
			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			_ = c.Error(apperrors.RateLimitExceeded("Trop de recherches, réessayez dans une minute", retryAfter))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", int64(limit)-count))
		c.Next()
	}
}

// getClientIP extracts the real client IP from the request.
// X-Forwarded-For and X-Real-IP win over RemoteAddr behind proxies.
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}
