package pricing

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the plan catalog.
type Handler struct {
	resolver *Resolver
}

// NewHandler constructs a pricing HTTP handler.
func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// List returns every plan priced for the requested cycle (monthly by default).
func (h *Handler) List(c *fiber.Ctx) error {
	cycle := CycleMonthly
	if raw := c.Query("cycle"); raw != "" {
		parsed, err := ParseCycle(raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		cycle = parsed
	}
	offers, err := h.resolver.Catalog(cycle)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"cycle": cycle,
		"plans": offers,
	})
}
