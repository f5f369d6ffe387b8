package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearning_backend/internals/configs"
	"elearning_backend/internals/constants"
	helper "elearning_backend/internals/helpers"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newProtectedApp() *fiber.App {
	configs.JWTSecret = testSecret
	app := fiber.New()
	// db nil: semua kasus di sini gagal sebelum query blacklist
	app.Get("/p", AuthMiddleware(nil), func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	resp, err := newProtectedApp().Test(httptest.NewRequest("GET", "/p", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareRejectsBadFormat(t *testing.T) {
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := newProtectedApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareRejectsWrongSignature(t *testing.T) {
	tok := signToken(t, "other-secret", jwt.MapClaims{
		"typ": "access", "id": uuid.NewString(), "exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := newProtectedApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareRejectsExpired(t *testing.T) {
	tok := signToken(t, testSecret, jwt.MapClaims{
		"typ": "access", "id": uuid.NewString(), "exp": time.Now().Add(-time.Hour).Unix(),
	})
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := newProtectedApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareRejectsRefreshToken(t *testing.T) {
	tok := signToken(t, testSecret, jwt.MapClaims{
		"typ": "refresh", "sub": uuid.NewString(), "exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := newProtectedApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestValidateTokenExpirySkew(t *testing.T) {
	past := time.Now().Add(-10 * time.Second).Unix()
	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(past)}, expirySkew))
	assert.Error(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(past)}, 0))
	assert.Error(t, validateTokenExpiry(jwt.MapClaims{}, expirySkew))
}

func TestExtractUserIDFallsBackToSub(t *testing.T) {
	id := uuid.New()
	got, err := extractUserID(jwt.MapClaims{"sub": id.String()})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = extractUserID(jwt.MapClaims{})
	assert.Error(t, err)
}

func TestExtractBearerTokenFromCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		tok, err := extractBearerToken(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(tok)
	})
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Cookie", "access_token=abc.def.ghi")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func roleApp(role string) *fiber.App {
	app := fiber.New()
	app.Get("/a",
		func(c *fiber.Ctx) error {
			if role != "" {
				c.Locals(helper.LocUserRole, role)
			}
			return c.Next()
		},
		OnlyRoles(constants.RoleErrorAdmin("users"), constants.AdminOnly...),
		func(c *fiber.Ctx) error { return c.SendString("ok") },
	)
	return app
}

func TestOnlyRoles(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{"", fiber.StatusUnauthorized},
		{constants.RoleUser, fiber.StatusForbidden},
		{constants.RoleTeacher, fiber.StatusForbidden},
		{constants.RoleAdmin, fiber.StatusOK},
		{"admin", fiber.StatusOK},
	}
	for _, tc := range cases {
		resp, err := roleApp(tc.role).Test(httptest.NewRequest("GET", "/a", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode, "role=%q", tc.role)
	}
}
