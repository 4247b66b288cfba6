package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	busRouteCtl "schooladmin_backend/internals/features/transport/bus_routes/controller"
	schoolMiddleware "schooladmin_backend/internals/middlewares/features"
)

// Parents and students browse routes and stops.
func BusRouteUserRoutes(api fiber.Router, db *gorm.DB) {
	ctl := busRouteCtl.NewBusRouteController(db, nil)

	g := api.Group("/bus-routes", schoolMiddleware.RequireSchool())
	g.Get("/list", ctl.List)
	g.Get("/:id", ctl.GetByID)
}
