package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// SubmitRateLimit caps submissions per wizard and per client IP in a one
// minute window using Redis counters. It is a no-op without Redis and fails
// open on cache errors.
func SubmitRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		keys := []string{"rl:submit:ip:" + c.IP()}
		if id := c.Params("id"); id != "" {
			keys = append(keys, "rl:submit:wizard:"+id)
		}
		for _, key := range keys {
			cnt, err := cache.Incr(c.UserContext(), key).Result()
			if err != nil {
				return c.Next()
			}
			if cnt == 1 {
				cache.Expire(c.UserContext(), key, time.Minute)
			}
			if cnt > int64(maxPerMin) {
				c.Set(fiber.HeaderRetryAfter, "60")
				return fiber.NewError(http.StatusTooManyRequests, "too many submissions, try again later")
			}
		}
		return c.Next()
	}
}
