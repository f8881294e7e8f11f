package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"agency-ledger/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(m *auth.JWTManager) *fiber.App {
	logger := zap.NewNop()
	app := fiber.New()
	app.Get("/me", AuthMiddleware(m, logger), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("tenantID").(string))
	})
	app.Get("/admin", AuthMiddleware(m, logger), AdminOnly(logger), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour, time.Hour)
	admin, err := m.GenerateToken("u1", "t1", "", "", auth.RoleAdmin)
	require.NoError(t, err)
	member, err := m.GenerateToken("u2", "t1", "", "", auth.RoleMember)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "missing token", path: "/me", want: fiber.StatusUnauthorized},
		{name: "bad token", path: "/me", header: "Bearer nope", want: fiber.StatusUnauthorized},
		{name: "valid token", path: "/me", header: "Bearer " + member, want: fiber.StatusOK},
		{name: "member on admin route", path: "/admin", header: "Bearer " + member, want: fiber.StatusForbidden},
		{name: "admin on admin route", path: "/admin", header: "Bearer " + admin, want: fiber.StatusNoContent},
	}

	app := setupTestApp(m)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
