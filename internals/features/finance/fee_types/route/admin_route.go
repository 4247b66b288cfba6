package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/constants"
	feeTypeCtl "schooladmin_backend/internals/features/finance/fee_types/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
	schoolMiddleware "schooladmin_backend/internals/middlewares/features"
)

func FeeTypeAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := feeTypeCtl.NewFeeTypeController(db, nil)

	g := api.Group("/fee-types",
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("fee types"), constants.AdminAndAbove),
		schoolMiddleware.IsSchoolAdmin(),
		schoolMiddleware.ResolveActiveAcademicYear(db),
	)

	g.Post("/", ctl.Create)
	g.Get("/list", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
}
