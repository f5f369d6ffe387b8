package auth

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	helper "elearning_backend/internals/helpers"
)

// OnlyRolesSlice: lolos kalau role user ada di allowedRoles. Pasang setelah AuthMiddleware.
func OnlyRolesSlice(message string, allowedRoles []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helper.GetUserRole(c)
		if role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Role not found")
		}
		if slices.Contains(allowedRoles, role) {
			return c.Next()
		}
		return helper.JsonError(c, fiber.StatusForbidden, message)
	}
}

func OnlyRoles(message string, roles ...string) fiber.Handler {
	return OnlyRolesSlice(message, roles)
}
