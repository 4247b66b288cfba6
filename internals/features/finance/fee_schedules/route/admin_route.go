package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/constants"
	scheduleCtl "schooladmin_backend/internals/features/finance/fee_schedules/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
	schoolMiddleware "schooladmin_backend/internals/middlewares/features"
)

func FeeScheduleAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := scheduleCtl.NewFeeScheduleController(db, nil)

	g := api.Group("/fee-schedules",
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("fee schedules"), constants.AdminAndAbove),
		schoolMiddleware.IsSchoolAdmin(),
		schoolMiddleware.ResolveActiveAcademicYear(db),
	)

	g.Post("/", ctl.Create)
	g.Post("/preview", ctl.Preview)
	g.Get("/list", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
}
