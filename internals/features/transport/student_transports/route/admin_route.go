package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/constants"
	"schooladmin_backend/internals/events"
	stCtl "schooladmin_backend/internals/features/transport/student_transports/controller"
	stSvc "schooladmin_backend/internals/features/transport/student_transports/service"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
	schoolMiddleware "schooladmin_backend/internals/middlewares/features"
)

// Finance staff assign students and post payments.
func StudentTransportAdminRoutes(api fiber.Router, db *gorm.DB, deps Deps) {
	ctl := stCtl.NewStudentTransportController(db, nil, deps.Events, deps.Gateway, deps.ServerKey)

	g := api.Group("/student-transports",
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("student transport"), constants.FinanceStaff),
		schoolMiddleware.RequireSchool(),
		schoolMiddleware.ResolveActiveAcademicYear(db),
	)

	g.Post("/payments", ctl.RecordPayment)
	g.Patch("/payments/:fee_id/approve", ctl.ApprovePayment)

	g.Post("/", ctl.Create)
	g.Get("/list", ctl.List)
	g.Get("/student/:student_id", ctl.ListByStudent)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/fees/:fee_id/checkout", ctl.Checkout)
}

type Deps struct {
	Events    events.Publisher
	Gateway   stSvc.Gateway
	ServerKey string
}
