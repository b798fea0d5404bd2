package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lusoconnect/onboarding/internal/auth"
	"github.com/lusoconnect/onboarding/internal/members"
)

func TestJWTAuth(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)
	app := fiber.New()
	app.Get("/me", JWTAuth(issuer), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(members.MemberIDLocal).(string))
	})

	token, err := issuer.Issue("member-9", "free")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", fiber.StatusUnauthorized},
		{"valid", "Bearer " + token, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
