package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New()
	app.Post("/wizards/:id/submit", SubmitRateLimit(cache, 2), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	submit := func(id string) int {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/wizards/"+id+"/submit", nil))
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusCreated, submit("a"))
	assert.Equal(t, fiber.StatusCreated, submit("a"))
	assert.Equal(t, fiber.StatusTooManyRequests, submit("a"))
	// the per-IP counter is shared across wizards
	assert.Equal(t, fiber.StatusTooManyRequests, submit("b"))

	mr.FastForward(61 * time.Second)
	assert.Equal(t, fiber.StatusCreated, submit("b"))
}

func TestSubmitRateLimitWithoutRedis(t *testing.T) {
	app := fiber.New()
	app.Post("/x", SubmitRateLimit(nil, 1), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/x", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}
