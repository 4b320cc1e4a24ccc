package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/flowpark/backend/internal/domain"
)

const identityKey = "identity"

// NewAuthMiddleware returns a fiber handler enforcing bearer-token auth.
//
// A missing or non-Bearer Authorization header falls back to an anonymous
// dev identity only when allowAnonymous is set; that escape hatch is a
// development convenience and must stay off in production. Invalid tokens
// get an opaque 401: no detail about why verification failed is leaked.
func NewAuthMiddleware(verifier domain.TokenVerifier, allowAnonymous bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)

		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			if allowAnonymous {
				c.Locals(identityKey, &domain.Identity{UID: "dev_user", Anonymous: true})
				return c.Next()
			}
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid token")
		}

		token := strings.TrimPrefix(header, "Bearer ")
		identity, err := verifier.Verify(c.Context(), token)
		if err != nil || identity == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid token")
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}
