package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"processapi/internal/auth"
)

// PrincipalLocalKey is the key used to store the caller principal in Fiber's context locals.
const PrincipalLocalKey = "principal"

// Authenticate resolves the caller from an "Authorization: Bearer" header.
// Requests without the header proceed as anonymous; a bad token is rejected with 401.
func Authenticate(verifier auth.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			c.Locals(PrincipalLocalKey, auth.Anonymous())
			return c.Next()
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		p, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		c.Locals(PrincipalLocalKey, p)
		return c.Next()
	}
}

// PrincipalFromCtx returns the principal stored by Authenticate, or an anonymous one.
func PrincipalFromCtx(c *fiber.Ctx) *auth.Principal {
	if p, ok := c.Locals(PrincipalLocalKey).(*auth.Principal); ok && p != nil {
		return p
	}
	return auth.Anonymous()
}
