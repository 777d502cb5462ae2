package http

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http/httptest"
	"testing"

	"sclhub-api/internal/cluster/adapter/security"
	"sclhub-api/internal/cluster/domain/repository"
	"sclhub-api/internal/shared/contextkeys"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserApp(verifier repository.TokenVerifier, probe fiber.Handler) *fiber.App {
	middleware := NewAuthMiddleware(verifier, security.NewAdminCredentials("admin", "secret"))
	app := fiber.New()
	app.Get("/protected", middleware.RequireUser(), probe)
	return app
}

func TestRequireUser_ValidToken(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(_ context.Context, token string) (*repository.Principal, error) {
			assert.Equal(t, "good-token", token)
			return &repository.Principal{UID: "user-1", Email: "user@example.com"}, nil
		},
	}

	var seen *repository.Principal
	var ctxUID interface{}
	app := newUserApp(verifier, func(c *fiber.Ctx) error {
		seen = Principal(c)
		ctxUID = c.UserContext().Value(contextkeys.UserIDKey)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UID)
	assert.Equal(t, "user-1", ctxUID, "handlers log with the uid from the request context")
}

func TestRequireUser_MissingHeader(t *testing.T) {
	app := newUserApp(&mockVerifier{}, func(c *fiber.Ctx) error {
		t.Fatal("handler must not run without a token")
		return nil
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "Unauthorized", body["message"])
}

func TestRequireUser_NonBearerScheme(t *testing.T) {
	app := newUserApp(&mockVerifier{}, func(c *fiber.Ctx) error {
		t.Fatal("handler must not run")
		return nil
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireUser_RejectedToken(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(_ context.Context, token string) (*repository.Principal, error) {
			return nil, errors.New("token is expired")
		},
	}
	app := newUserApp(verifier, func(c *fiber.Ctx) error {
		t.Fatal("handler must not run")
		return nil
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func newAdminAuthApp() *fiber.App {
	middleware := NewAuthMiddleware(&mockVerifier{}, security.NewAdminCredentials("admin", "secret"))
	app := fiber.New()
	app.Get("/admin", middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestRequireAdmin_ValidCredentials(t *testing.T) {
	app := newAdminAuthApp()

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", basicAuth("admin", "secret"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdmin_ChallengesWithoutCredentials(t *testing.T) {
	app := newAdminAuthApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("WWW-Authenticate"), "SCL Hub Admin Area")
}

func TestRequireAdmin_WrongCredentials(t *testing.T) {
	app := newAdminAuthApp()

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", basicAuth("admin", "wrong"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequestID_SetsResponseHeader(t *testing.T) {
	middleware := NewAuthMiddleware(&mockVerifier{}, security.NewAdminCredentials("admin", "secret"))
	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
