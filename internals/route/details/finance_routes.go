// internals/route/details/finance_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	FeeScheduleRoutes "schooladmin_backend/internals/features/finance/fee_schedules/route"
	FeeTypeRoutes "schooladmin_backend/internals/features/finance/fee_types/route"
)

func FinanceAdminRoutes(r fiber.Router, db *gorm.DB) {
	FeeTypeRoutes.FeeTypeAdminRoutes(r, db)
	FeeScheduleRoutes.FeeScheduleAdminRoutes(r, db)
}
