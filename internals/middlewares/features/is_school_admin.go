package middleware

import (
	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/constants"
	helperAuth "schooladmin_backend/internals/helpers/auth"
)

// IsSchoolAdmin requires a school in the token and an admin-level role.
func IsSchoolAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := helperAuth.GetActiveSchoolID(c); err != nil {
			return err
		}
		if !helperAuth.HasAnyRole(c, constants.AdminAndAbove...) {
			return helperAuth.ErrSchoolContextForbidden
		}
		return c.Next()
	}
}

// RequireSchool only needs the tenant; used by read-only user routes.
func RequireSchool() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := helperAuth.GetActiveSchoolID(c); err != nil {
			return err
		}
		return c.Next()
	}
}
