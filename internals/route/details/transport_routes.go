// internals/route/details/transport_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	BusRouteRoutes "schooladmin_backend/internals/features/transport/bus_routes/route"
	DriverRoutes "schooladmin_backend/internals/features/transport/drivers/route"
	StudentTransportRoutes "schooladmin_backend/internals/features/transport/student_transports/route"
	VehicleRoutes "schooladmin_backend/internals/features/transport/vehicles/route"
)

/* ===================== PUBLIC ===================== */
// Gateway callbacks only; everything else needs a token.
func TransportPublicRoutes(r fiber.Router, db *gorm.DB, deps StudentTransportRoutes.Deps) {
	StudentTransportRoutes.PaymentPublicRoutes(r, db, deps)
}

/* ===================== USER ===================== */
func TransportUserRoutes(r fiber.Router, db *gorm.DB, deps StudentTransportRoutes.Deps) {
	BusRouteRoutes.BusRouteUserRoutes(r, db)
	StudentTransportRoutes.StudentTransportUserRoutes(r, db, deps)
}

/* ===================== ADMIN ===================== */
func TransportAdminRoutes(r fiber.Router, db *gorm.DB, deps StudentTransportRoutes.Deps) {
	BusRouteRoutes.BusRouteAdminRoutes(r, db)
	DriverRoutes.DriverAdminRoutes(r, db)
	VehicleRoutes.VehicleAdminRoutes(r, db)
	StudentTransportRoutes.StudentTransportAdminRoutes(r, db, deps)
}
