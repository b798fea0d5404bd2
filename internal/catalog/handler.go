package catalog

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Options returns every option list used by the registration steps.
func Options(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"heritage":             Nations,
		"culturalInterests":    Interests,
		"locations":            Cities,
		"communityPreferences": Preferences,
	})
}
