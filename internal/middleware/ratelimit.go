package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanctuarysound/api/pkg/response"
)

// RateLimiter is a fixed-window per-operator limiter backed by Redis.
type RateLimiter struct {
	redis *redis.Client
	log   *zap.Logger
}

func NewRateLimiter(redisClient *redis.Client, log *zap.Logger) *RateLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &RateLimiter{redis: redisClient, log: log.Named("ratelimit")}
}

// Limit creates a rate limiting middleware
func (rl *RateLimiter) Limit(keyPrefix string, maxRequests int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		operatorID := GetOperatorID(c)
		if operatorID == "" || maxRequests <= 0 {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:%s:%s", keyPrefix, operatorID)
		ctx := c.UserContext()

		count, err := rl.redis.Incr(ctx, key).Result()
		if err != nil {
			// Fail open when Redis is unavailable.
			rl.log.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
			return c.Next()
		}

		if count == 1 {
			rl.redis.Expire(ctx, key, window)
		}

		if count > int64(maxRequests) {
			ttl, _ := rl.redis.TTL(ctx, key).Result()
			c.Set("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			return response.RateLimited(c)
		}

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequests))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", maxRequests-int(count)))

		return c.Next()
	}
}

// RecommendLimit limits recommendation requests per operator per hour.
func (rl *RateLimiter) RecommendLimit(maxPerHour int) fiber.Handler {
	return rl.Limit("recommend", maxPerHour, time.Hour)
}

// AnalyzeLimit limits analysis and inference requests per operator per hour.
func (rl *RateLimiter) AnalyzeLimit(maxPerHour int) fiber.Handler {
	return rl.Limit("analyze", maxPerHour, time.Hour)
}

// ImportLimit limits snapshot imports per operator per hour.
func (rl *RateLimiter) ImportLimit(maxPerHour int) fiber.Handler {
	return rl.Limit("import", maxPerHour, time.Hour)
}
