package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setcheck_backend/internals/configs"
)

const testSecret = "test-secret"

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func newAuthApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id"), "role": c.Locals("userRole")})
	})
	app.Get("/admin", AuthMiddleware(), OnlyRolesSlice("admins only", []string{"admin"}), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func call(t *testing.T, app *fiber.App, path string, mutate func(*http.Request)) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func bearer(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func TestAuthMiddleware(t *testing.T) {
	configs.JWTSecret = testSecret
	t.Cleanup(func() { configs.JWTSecret = "" })
	app := newAuthApp()
	future := time.Now().Add(time.Hour).Unix()

	t.Run("valid bearer token", func(t *testing.T) {
		tok := sign(t, testSecret, jwt.MapClaims{"id": 42, "role": "Teacher", "exp": future})
		code, body := call(t, app, "/me", bearer(tok))
		assert.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `{"user_id":42,"role":"teacher"}`, body)
	})

	t.Run("cookie fallback and string id", func(t *testing.T) {
		tok := sign(t, testSecret, jwt.MapClaims{"id": "9", "role": "admin", "exp": future})
		code, body := call(t, app, "/me", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "access_token", Value: tok})
		})
		assert.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `{"user_id":9,"role":"admin"}`, body)
	})

	t.Run("missing token", func(t *testing.T) {
		code, _ := call(t, app, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		code, _ := call(t, app, "/me", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") })
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("bad signature", func(t *testing.T) {
		tok := sign(t, "other-secret", jwt.MapClaims{"id": 42, "exp": future})
		code, _ := call(t, app, "/me", bearer(tok))
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("expired", func(t *testing.T) {
		tok := sign(t, testSecret, jwt.MapClaims{"id": 42, "exp": time.Now().Add(-time.Hour).Unix()})
		code, _ := call(t, app, "/me", bearer(tok))
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("no user id", func(t *testing.T) {
		tok := sign(t, testSecret, jwt.MapClaims{"role": "admin", "exp": future})
		code, _ := call(t, app, "/me", bearer(tok))
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("role guard", func(t *testing.T) {
		teacher := sign(t, testSecret, jwt.MapClaims{"id": 1, "role": "teacher", "exp": future})
		code, body := call(t, app, "/admin", bearer(teacher))
		assert.Equal(t, http.StatusForbidden, code)
		assert.Contains(t, body, "admins only")

		admin := sign(t, testSecret, jwt.MapClaims{"id": 1, "role": "admin", "exp": future})
		code, _ = call(t, app, "/admin", bearer(admin))
		assert.Equal(t, http.StatusOK, code)
	})
}

func TestAuthMiddlewareWithoutSecret(t *testing.T) {
	configs.JWTSecret = ""
	app := newAuthApp()
	tok := sign(t, testSecret, jwt.MapClaims{"id": 1, "exp": time.Now().Add(time.Hour).Unix()})
	code, _ := call(t, app, "/me", bearer(tok))
	assert.Equal(t, http.StatusInternalServerError, code)
}
