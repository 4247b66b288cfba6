package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	yearCtl "schooladmin_backend/internals/features/school/academics/academic_years/controller"
	schoolMiddleware "schooladmin_backend/internals/middlewares/features"
)

// Read-only, any member of the school.
func AcademicYearUserRoutes(api fiber.Router, db *gorm.DB) {
	ctl := yearCtl.NewAcademicYearController(db, nil)

	g := api.Group("/academic-years", schoolMiddleware.RequireSchool())
	g.Get("/list", ctl.List)
	g.Get("/active", ctl.GetActive)
	g.Get("/:id", ctl.GetByID)
}
