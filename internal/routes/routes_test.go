package routes

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/cache"
	"github.com/jstyp/storefront-backend/internal/config"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cfg = &config.Config{JWTSecret: "routes-secret"}

func newApp() *fiber.App {
	app := fiber.New()
	c := cache.NewMemoryCache()
	Setup(app, cfg, Handlers{
		ClientGuard: middleware.NewBruteForceProtection(c, "client_login"),
		AdminGuard:  middleware.NewBruteForceProtection(c, "admin_login"),
	}, "")
	return app
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": role,
		"name": "Route Test",
		"exp":  time.Now().Add(time.Minute).Unix(),
	})
	s, err := token.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

func TestSetup_RoleGates(t *testing.T) {
	app := newApp()

	cases := []struct {
		name    string
		method  string
		path    string
		role    string
		status  int
		message string
	}{
		{"admin without token", "GET", "/api/admin/apps", "", fiber.StatusUnauthorized, "Unauthorized: invalid or expired token"},
		{"admin as client", "GET", "/api/admin/pins", middleware.RoleClient, fiber.StatusForbidden, "Admin access required"},
		{"settings as team", "PUT", "/api/admin/website-details", middleware.RoleTeam, fiber.StatusForbidden, "Master access required"},
		{"upload as team", "POST", "/api/admin/upload", middleware.RoleTeam, fiber.StatusForbidden, "Master access required"},
		{"team members as team", "GET", "/api/admin/team-members", middleware.RoleTeam, fiber.StatusForbidden, "Master access required"},
		{"client area as team", "GET", "/api/client/me", middleware.RoleTeam, fiber.StatusForbidden, "Forbidden"},
		{"client area without token", "GET", "/api/client/apps", "", fiber.StatusUnauthorized, "Unauthorized: invalid or expired token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.role != "" {
				req.Header.Set("Authorization", bearer(t, tc.role))
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.True(t, body.Error)
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestSetup_MetricsEndpoint(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
