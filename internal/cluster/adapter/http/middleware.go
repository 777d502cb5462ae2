package http

import (
	"context"
	"strings"

	"sclhub-api/internal/cluster/adapter/security"
	"sclhub-api/internal/cluster/domain/repository"
	"sclhub-api/internal/shared/contextkeys"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const principalLocal = "principal"

// AuthMiddleware authenticates inbound requests: bearer tokens for the user
// surface, HTTP Basic for the admin surface.
type AuthMiddleware struct {
	verifier repository.TokenVerifier
	admin    *security.AdminCredentials
}

// NewAuthMiddleware creates the authentication middleware.
func NewAuthMiddleware(verifier repository.TokenVerifier, admin *security.AdminCredentials) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, admin: admin}
}

// RequestID tags every request for log correlation.
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// RequireUser verifies the bearer token and stores the resolved principal
// for the handlers.
func (m *AuthMiddleware) RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Unauthorized",
			})
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		principal, err := m.verifier.Verify(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Unauthorized",
			})
		}

		c.Locals(principalLocal, principal)

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, principal.UID)
		if principal.Email != "" {
			ctx = context.WithValue(ctx, contextkeys.UserEmailKey, principal.Email)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RequireAdmin gates the admin surface behind HTTP Basic auth with a
// browser-friendly challenge.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return basicauth.New(basicauth.Config{
		Realm: `Basic realm="SCL Hub Admin Area"`,
		Authorizer: func(username, password string) bool {
			return m.admin.Authorize(username, password)
		},
		Unauthorized: func(c *fiber.Ctx) error {
			c.Set("WWW-Authenticate", `Basic realm="SCL Hub Admin Area"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Admin credentials required",
			})
		},
	})
}

// Principal returns the authenticated principal stored by RequireUser.
func Principal(c *fiber.Ctx) *repository.Principal {
	principal, _ := c.Locals(principalLocal).(*repository.Principal)
	return principal
}
