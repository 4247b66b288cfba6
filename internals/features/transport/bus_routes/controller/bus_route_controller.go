// file: internals/features/transport/bus_routes/controller/bus_route_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "schooladmin_backend/internals/features/transport/bus_routes/dto"
	m "schooladmin_backend/internals/features/transport/bus_routes/model"
	driverModel "schooladmin_backend/internals/features/transport/drivers/model"
	vehicleModel "schooladmin_backend/internals/features/transport/vehicles/model"
	helper "schooladmin_backend/internals/helpers"
	helperAuth "schooladmin_backend/internals/helpers/auth"
)

type BusRouteController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewBusRouteController(db *gorm.DB, v *validator.Validate) *BusRouteController {
	if v == nil {
		v = validator.New()
	}
	return &BusRouteController{DB: db, Validator: v}
}

var errDuplicateNumber = helper.BadRequest("Route number already exists")

func (ctl *BusRouteController) ensureUniqueNumber(db *gorm.DB, schoolID uuid.UUID, number string, exclude *uuid.UUID) error {
	q := db.Model(&m.BusRouteModel{}).
		Where("bus_route_school_id = ? AND UPPER(bus_route_number) = ?", schoolID, strings.ToUpper(number))
	if exclude != nil {
		q = q.Where("bus_route_id <> ?", *exclude)
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return errDuplicateNumber
	}
	return nil
}

// ensureRefs checks that the vehicle and driver belong to the school.
func ensureRefs(db *gorm.DB, schoolID uuid.UUID, vehicleID, driverID *uuid.UUID) error {
	if vehicleID != nil {
		var cnt int64
		if err := db.Model(&vehicleModel.VehicleModel{}).
			Where("vehicle_id = ? AND vehicle_school_id = ?", *vehicleID, schoolID).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return helper.NotFound("Vehicle not found")
		}
	}
	if driverID != nil {
		var cnt int64
		if err := db.Model(&driverModel.DriverModel{}).
			Where("driver_id = ? AND driver_school_id = ?", *driverID, schoolID).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return helper.NotFound("Driver not found")
		}
	}
	return nil
}

func (ctl *BusRouteController) load(db *gorm.DB, schoolID, id uuid.UUID) (m.BusRouteModel, error) {
	var rec m.BusRouteModel
	err := db.Where("bus_route_id = ? AND bus_route_school_id = ?", id, schoolID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, helper.NotFound("Bus route not found")
	}
	return rec, err
}

/* =========================
   Create
   POST /bus-routes
========================= */

func (ctl *BusRouteController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}

	var req dto.CreateBusRouteRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if req.HasNegativeFee() {
		return helper.BadRequest("monthly_fee must be >= 0")
	}

	db := ctl.DB.WithContext(c.Context())
	rec := req.ToModel(schoolID)
	if err := ctl.ensureUniqueNumber(db, schoolID, rec.BusRouteNumber, nil); err != nil {
		return err
	}
	if err := ensureRefs(db, schoolID, rec.BusRouteVehicleID, rec.BusRouteDriverID); err != nil {
		return err
	}

	if err := db.Create(&rec).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return errDuplicateNumber
		}
		return err
	}
	return helper.JsonCreated(c, "Bus route created", dto.FromModel(rec))
}

/* =========================
   List / Get
   GET /bus-routes/list?q=&has_seats=
========================= */

func (ctl *BusRouteController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := ctl.DB.WithContext(c.Context()).Model(&m.BusRouteModel{}).Where("bus_route_school_id = ?", schoolID)
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("(LOWER(bus_route_name) LIKE ? OR LOWER(bus_route_number) LIKE ?)", like, like)
	}
	if c.QueryBool("has_seats", false) {
		tx = tx.Where("bus_route_available_seats > 0")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return err
	}
	var rows []m.BusRouteModel
	if err := tx.Order("bus_route_number ASC").Offset(paging.Offset).Limit(paging.Limit).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, paging))
}

func (ctl *BusRouteController) GetByID(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	rec, err := ctl.load(ctl.DB.WithContext(c.Context()), schoolID, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.FromModel(rec))
}

/* =========================
   Patch
   PATCH /bus-routes/:id
========================= */

func (ctl *BusRouteController) Patch(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.PatchBusRouteRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if req.HasNegativeFee() {
		return helper.BadRequest("monthly_fee must be >= 0")
	}

	var rec m.BusRouteModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		cur, err := ctl.load(helper.ForUpdate(tx), schoolID, id)
		if err != nil {
			return err
		}
		if err := req.Apply(&cur); err != nil {
			return helper.BadRequest(err.Error())
		}
		if req.Number != nil {
			if err := ctl.ensureUniqueNumber(tx, schoolID, cur.BusRouteNumber, &cur.BusRouteID); err != nil {
				return err
			}
		}
		if err := ensureRefs(tx, schoolID, req.VehicleID, req.DriverID); err != nil {
			return err
		}
		if err := tx.Save(&cur).Error; err != nil {
			if helper.IsDuplicateKey(err) {
				return errDuplicateNumber
			}
			return err
		}
		rec = cur
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Bus route updated", dto.FromModel(rec))
}

func (ctl *BusRouteController) Delete(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	db := ctl.DB.WithContext(c.Context())
	rec, err := ctl.load(db, schoolID, id)
	if err != nil {
		return err
	}
	if rec.BusRouteAvailableSeats < rec.BusRouteSeatingCapacity {
		return helper.BadRequest("Bus route still has assigned students")
	}
	if err := db.Delete(&rec).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Bus route deleted", fiber.Map{"bus_route_id": rec.BusRouteID})
}
