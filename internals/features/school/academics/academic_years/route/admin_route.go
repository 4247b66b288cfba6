// file: internals/features/school/academics/academic_years/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/constants"
	yearCtl "schooladmin_backend/internals/features/school/academics/academic_years/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
	schoolMiddleware "schooladmin_backend/internals/middlewares/features"
)

func AcademicYearAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := yearCtl.NewAcademicYearController(db, nil)

	base := api.Group("/academic-years",
		authMiddleware.OnlyRolesSlice(
			constants.RoleErrorAdmin("academic years"),
			constants.AdminAndAbove,
		),
		schoolMiddleware.IsSchoolAdmin(),
	)

	base.Post("/", ctl.Create)
	base.Get("/list", ctl.List)
	base.Get("/active", ctl.GetActive)
	base.Get("/:id", ctl.GetByID)
	base.Patch("/:id/set-active", ctl.SetActive)
	base.Patch("/:id", ctl.Patch)
	base.Delete("/:id", ctl.Delete)
	base.Post("/:id/restore", ctl.Restore)
}
