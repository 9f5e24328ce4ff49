package middleware

import (
	"esport-events-backend/internal/models"
	"esport-events-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Require lets the request through only when the caller's role grants the
// capability. It must run after JWTMiddleware.
func Require(capability models.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, role, ok := CurrentUser(c)
		if !ok {
			return utils.Error(c, "Authentication required", fiber.StatusUnauthorized)
		}
		if !role.Can(capability) {
			return utils.Error(c, "Access denied", fiber.StatusForbidden)
		}
		return c.Next()
	}
}

func AdminOnly(c *fiber.Ctx) error {
	return Require(models.CapManageUsers)(c)
}
