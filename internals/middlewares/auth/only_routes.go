package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "setcheck_backend/internals/helpers"
)

// OnlyRolesSlice lets the request through when the token role is one of allowedRoles.
func OnlyRolesSlice(message string, allowedRoles []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("userRole").(string)
		if !ok || role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Role not found")
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return helper.JsonError(c, fiber.StatusForbidden, message)
	}
}
