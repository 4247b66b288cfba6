package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	yearSvc "schooladmin_backend/internals/features/school/academics/academic_years/service"
	helperAuth "schooladmin_backend/internals/helpers/auth"
)

// ResolveActiveAcademicYear puts the school's active academic year into
// locals. Fee types and schedules are scoped to it.
func ResolveActiveAcademicYear(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := helperAuth.GetActiveSchoolID(c)
		if err != nil {
			return err
		}
		year, err := yearSvc.ActiveYears.Resolve(db, schoolID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "No active academic year")
		}
		if err != nil {
			return err
		}
		c.Locals(yearSvc.LocActiveAcademicYear, year)
		return c.Next()
	}
}
