package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lusoconnect/onboarding/internal/members"
)

// RegisterMemberRoutes wires account creation and the authenticated profile.
func RegisterMemberRoutes(r fiber.Router, h *members.Handler, idempotency, jwt fiber.Handler) {
	group := r.Group("/members")
	group.Post("/", idempotency, h.Register)
	group.Get("/me", jwt, h.Me)
}
