package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lusoconnect/onboarding/internal/wizard"
)

// RegisterWizardRoutes wires the HTTP-hosted registration wizard. Submissions
// pass through the idempotency and rate limit middlewares.
func RegisterWizardRoutes(r fiber.Router, h *wizard.Handler, idempotency, rateLimit fiber.Handler) {
	group := r.Group("/wizards")
	group.Post("/", h.Open)
	group.Get("/:id", h.Get)
	group.Patch("/:id", h.Update)
	group.Post("/:id/next", h.Next)
	group.Post("/:id/previous", h.Previous)
	group.Post("/:id/submit", rateLimit, idempotency, h.Submit)
	group.Delete("/:id", h.Close)
}
