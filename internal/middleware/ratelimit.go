package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const rateLimitPrefix = "matcha:ratelimit:"

// RateLimit caps requests per client IP within a fixed window counted in
// Redis. The window starts with the first request and is never extended by
// later ones, rejected or not. When Redis is unavailable the request is let
// through.
func RateLimit(rdb *redis.Client, maxRequests int, window time.Duration, log logrus.FieldLogger) gin.HandlerFunc {
	if rdb == nil {
		panic("redis client cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 || window <= 0 {
		panic("RateLimit needs a positive budget and window")
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := rateLimitPrefix + c.ClientIP()

		pipe := rdb.TxPipeline()
		pipe.SetNX(ctx, key, 0, window)
		incr := pipe.Incr(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			log.WithError(err).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		count := incr.Val()
		remaining := int64(maxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(maxRequests) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
