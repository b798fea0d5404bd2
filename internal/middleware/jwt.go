package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lusoconnect/onboarding/internal/auth"
	"github.com/lusoconnect/onboarding/internal/members"
)

// JWTAuth validates bearer access tokens and stores the member id in locals.
func JWTAuth(issuer *auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		claims, err := issuer.Verify(strings.TrimSpace(authz[len("Bearer "):]))
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return fiber.NewError(http.StatusUnauthorized, "token expired")
			}
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		c.Locals(members.MemberIDLocal, claims.MemberID)
		c.Locals("plan", claims.Plan)
		return c.Next()
	}
}
