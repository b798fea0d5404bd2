package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterHealthRoutes adds liveness/readiness style endpoints. Backends that
// are not configured report "disabled".
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		dbStatus, redisStatus, kafkaStatus := "disabled", "disabled", "disabled"

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		healthy := true
		check := func(status *string, err error) {
			if err != nil {
				*status = err.Error()
				healthy = false
				return
			}
			*status = "ok"
		}
		if d.DB != nil {
			check(&dbStatus, d.DB.Ping(ctx))
		}
		if d.Cache != nil {
			check(&redisStatus, d.Cache.Ping(ctx).Err())
		}
		if d.Kafka != nil {
			check(&kafkaStatus, d.Kafka.Ping(ctx))
		}
		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":    fiber.Map{"postgres": dbStatus, "redis": redisStatus, "kafka": kafkaStatus},
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
