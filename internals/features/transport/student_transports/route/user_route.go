package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	stCtl "schooladmin_backend/internals/features/transport/student_transports/controller"
	schoolMiddleware "schooladmin_backend/internals/middlewares/features"
)

// Parents see their children's ledgers and pay online; students see their own.
func StudentTransportUserRoutes(api fiber.Router, db *gorm.DB, deps Deps) {
	ctl := stCtl.NewStudentTransportController(db, nil, deps.Events, deps.Gateway, deps.ServerKey)
	ctl.OwnStudentsOnly = true

	g := api.Group("/student-transports",
		schoolMiddleware.RequireSchool(),
		schoolMiddleware.ResolveActiveAcademicYear(db),
	)
	g.Get("/student/:student_id", ctl.ListByStudent)
	g.Post("/:id/fees/:fee_id/checkout", ctl.Checkout)
}

// Midtrans calls back without a JWT; the signature is the credential.
func PaymentPublicRoutes(api fiber.Router, db *gorm.DB, deps Deps) {
	ctl := stCtl.NewStudentTransportController(db, nil, deps.Events, deps.Gateway, deps.ServerKey)

	api.Post("/payments/midtrans/notification", ctl.MidtransNotification)
}
