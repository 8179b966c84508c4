package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiterConfig configures the fixed-window limiter.
type RateLimiterConfig struct {
	RedisClient *redis.Client
	Limit       int
	Window      time.Duration
	KeyPrefix   string
	Extractor   func(c *gin.Context) string
	Logger      *zap.Logger
}

// OwnerOrIP keys requests by the resolved owner, falling back to the client IP.
func OwnerOrIP(c *gin.Context) string {
	if owner, ok := OwnerFromContext(c); ok {
		return "owner:" + owner
	}
	return "ip:" + c.ClientIP()
}

// NewRateLimiter counts requests per key in redis. Redis errors let the request through.
func NewRateLimiter(cfg RateLimiterConfig) gin.HandlerFunc {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rl:"
	}
	if cfg.Extractor == nil {
		cfg.Extractor = OwnerOrIP
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := cfg.Extractor(c)
		if id == "" {
			id = "anonymous"
		}
		key := cfg.KeyPrefix + id

		count, err := cfg.RedisClient.Incr(ctx, key).Result()
		if err != nil {
			cfg.Logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := cfg.RedisClient.Expire(ctx, key, cfg.Window).Err(); err != nil {
				cfg.Logger.Warn("rate limiter expire failed", zap.String("key", key), zap.Error(err))
			}
		}

		reset := 0
		if ttl, err := cfg.RedisClient.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			reset = int(ttl.Seconds())
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Reset", strconv.Itoa(reset))

		if count > int64(cfg.Limit) {
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":             "rate limit exceeded",
				"rate_limit":        cfg.Limit,
				"rate_limit_window": cfg.Window.String(),
				"retry_after_sec":   reset,
			})
			return
		}

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", cfg.Limit-int(count)))
		c.Next()
	}
}
