package auth

import (
	"github.com/gofiber/fiber/v2"

	helperAuth "schooladmin_backend/internals/helpers/auth"
)

// OnlyRolesSlice memungkinkan akses jika user memiliki salah satu dari role yang diizinkan.
func OnlyRolesSlice(message string, allowedRoles []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(helperAuth.Roles(c)) == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - role not found")
		}
		if !helperAuth.HasAnyRole(c, allowedRoles...) {
			return fiber.NewError(fiber.StatusForbidden, message)
		}
		return c.Next()
	}
}
