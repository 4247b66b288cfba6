// internals/route/details/school_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	AcademicYearRoutes "schooladmin_backend/internals/features/school/academics/academic_years/route"
)

/* ===================== USER ===================== */
func SchoolUserRoutes(r fiber.Router, db *gorm.DB) {
	AcademicYearRoutes.AcademicYearUserRoutes(r, db)
}

/* ===================== ADMIN ===================== */
func SchoolAdminRoutes(r fiber.Router, db *gorm.DB) {
	AcademicYearRoutes.AcademicYearAdminRoutes(r, db)
}
