package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/constants"
	vehicleCtl "schooladmin_backend/internals/features/transport/vehicles/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
	schoolMiddleware "schooladmin_backend/internals/middlewares/features"
)

func VehicleAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := vehicleCtl.NewVehicleController(db, nil)

	g := api.Group("/vehicles",
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("vehicles"), constants.AdminAndAbove),
		schoolMiddleware.IsSchoolAdmin(),
	)
	g.Post("/", ctl.Create)
	g.Get("/list", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
}
