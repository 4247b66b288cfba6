package route

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/constants"
	driverCtl "schooladmin_backend/internals/features/transport/drivers/controller"
	helperOSS "schooladmin_backend/internals/helpers/oss"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
	schoolMiddleware "schooladmin_backend/internals/middlewares/features"
)

func DriverAdminRoutes(api fiber.Router, db *gorm.DB) {
	var store driverCtl.DocumentStore
	if s, err := helperOSS.NewImageStoreFromEnv(); err == nil {
		store = s
	} else if !errors.Is(err, helperOSS.ErrOSSNotConfigured) {
		log.Printf("[WARN] driver documents disabled: %v", err)
	}
	ctl := driverCtl.NewDriverController(db, nil, store)

	g := api.Group("/drivers",
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("drivers"), constants.AdminAndAbove),
		schoolMiddleware.IsSchoolAdmin(),
	)
	g.Post("/", ctl.Create)
	g.Get("/list", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/documents/:kind", ctl.UploadDocument)
}
