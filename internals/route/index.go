// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/configs"
	"schooladmin_backend/internals/events"
	stRoute "schooladmin_backend/internals/features/transport/student_transports/route"
	stSvc "schooladmin_backend/internals/features/transport/student_transports/service"
	middlewares "schooladmin_backend/internals/middlewares"
	authSchool "schooladmin_backend/internals/middlewares/auth_school"
	routeDetails "schooladmin_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, pub events.Publisher) {
	startTime = time.Now()

	BaseRoutes(app, db)

	deps := stRoute.Deps{
		Events:    pub,
		Gateway:   stSvc.SnapGateway{},
		ServerKey: configs.MidtransServerKey,
	}
	jwt := authSchool.AuthJWT(authSchool.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	// ===================== GROUPS =====================

	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public", middlewares.PaymentRateLimiter())

	log.Println("[INFO] Setting up PRIVATE (user) group...")
	user := app.Group("/api/u", jwt)

	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a", jwt)

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting School routes...")
	routeDetails.SchoolUserRoutes(user, db)
	routeDetails.SchoolAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Finance routes...")
	routeDetails.FinanceAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Transport routes...")
	routeDetails.TransportPublicRoutes(public, db, deps)
	routeDetails.TransportUserRoutes(user, db, deps)
	routeDetails.TransportAdminRoutes(admin, db, deps)
}
