package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/constants"
	busRouteCtl "schooladmin_backend/internals/features/transport/bus_routes/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
	schoolMiddleware "schooladmin_backend/internals/middlewares/features"
)

func BusRouteAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := busRouteCtl.NewBusRouteController(db, nil)

	g := api.Group("/bus-routes",
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("bus routes"), constants.AdminAndAbove),
		schoolMiddleware.IsSchoolAdmin(),
	)
	g.Post("/", ctl.Create)
	g.Get("/list", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
}
