// file: internals/features/transport/vehicles/controller/vehicle_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	driverModel "schooladmin_backend/internals/features/transport/drivers/model"
	dto "schooladmin_backend/internals/features/transport/vehicles/dto"
	m "schooladmin_backend/internals/features/transport/vehicles/model"
	helper "schooladmin_backend/internals/helpers"
	helperAuth "schooladmin_backend/internals/helpers/auth"
	"schooladmin_backend/internals/helpers/dbtime"
)

type VehicleController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewVehicleController(db *gorm.DB, v *validator.Validate) *VehicleController {
	if v == nil {
		v = validator.New()
	}
	return &VehicleController{DB: db, Validator: v}
}

var errDuplicateNumber = helper.BadRequest("Vehicle number already exists")

func (ctl *VehicleController) ensureUniqueNumber(db *gorm.DB, schoolID uuid.UUID, number string, exclude *uuid.UUID) error {
	q := db.Model(&m.VehicleModel{}).
		Where("vehicle_school_id = ? AND UPPER(vehicle_number) = ?", schoolID, strings.ToUpper(number))
	if exclude != nil {
		q = q.Where("vehicle_id <> ?", *exclude)
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

func ensureDriver(db *gorm.DB, schoolID uuid.UUID, driverID *uuid.UUID) error {
	if driverID == nil {
		return nil
	}
	var cnt int64
	if err := db.Model(&driverModel.DriverModel{}).
		Where("driver_id = ? AND driver_school_id = ?", *driverID, schoolID).
		Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return helper.NotFound("Driver not found")
	}
	return nil
}

func (ctl *VehicleController) load(db *gorm.DB, schoolID, id uuid.UUID) (m.VehicleModel, error) {
	var rec m.VehicleModel
	err := db.Where("vehicle_id = ? AND vehicle_school_id = ?", id, schoolID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, helper.NotFound("Vehicle not found")
	}
	return rec, err
}

// POST /vehicles
func (ctl *VehicleController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}

	var req dto.CreateVehicleRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	rec, err := req.ToModel(schoolID, dbtime.GetSchoolLocation(c))
	if err != nil {
		return helper.BadRequest(err.Error())
	}

	db := ctl.DB.WithContext(c.Context())
	if err := ctl.ensureUniqueNumber(db, schoolID, rec.VehicleNumber, nil); err != nil {
		return err
	}
	if err := ensureDriver(db, schoolID, rec.VehicleDriverID); err != nil {
		return err
	}
	if err := db.Create(&rec).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return errDuplicateNumber
		}
		return err
	}
	return helper.JsonCreated(c, "Vehicle created", dto.FromModel(rec, dbtime.GetSchoolLocation(c)))
}

// GET /vehicles/list?type=&q=&active=
func (ctl *VehicleController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := ctl.DB.WithContext(c.Context()).Model(&m.VehicleModel{}).Where("vehicle_school_id = ?", schoolID)
	if t := strings.ToLower(strings.TrimSpace(c.Query("type"))); t != "" {
		tx = tx.Where("vehicle_type = ?", t)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		tx = tx.Where("UPPER(vehicle_number) LIKE ?", "%"+strings.ToUpper(s)+"%")
	}
	if a := c.Query("active"); a != "" {
		tx = tx.Where("vehicle_is_active = ?", c.QueryBool("active"))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return err
	}
	var rows []m.VehicleModel
	if err := tx.Order("vehicle_number ASC").Offset(paging.Offset).Limit(paging.Limit).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows, dbtime.GetSchoolLocation(c)), helper.BuildPagination(total, paging))
}

func (ctl *VehicleController) GetByID(c *fiber.Ctx) error {
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
	return helper.JsonOK(c, "ok", dto.FromModel(rec, dbtime.GetSchoolLocation(c)))
}

// PATCH /vehicles/:id
func (ctl *VehicleController) Patch(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.PatchVehicleRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}

	db := ctl.DB.WithContext(c.Context())
	rec, err := ctl.load(db, schoolID, id)
	if err != nil {
		return err
	}
	if err := req.Apply(&rec, dbtime.GetSchoolLocation(c)); err != nil {
		return helper.BadRequest(err.Error())
	}
	if req.Number != nil {
		if rec.VehicleNumber == "" {
			return helper.BadRequest("vehicle_number cannot be empty")
		}
		if err := ctl.ensureUniqueNumber(db, schoolID, rec.VehicleNumber, &rec.VehicleID); err != nil {
			return err
		}
	}
	if err := ensureDriver(db, schoolID, req.DriverID); err != nil {
		return err
	}
	if err := db.Save(&rec).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return errDuplicateNumber
		}
		return err
	}
	return helper.JsonUpdated(c, "Vehicle updated", dto.FromModel(rec, dbtime.GetSchoolLocation(c)))
}

// DELETE /vehicles/:id (soft)
func (ctl *VehicleController) Delete(c *fiber.Ctx) error {
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
	if err := db.Delete(&rec).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Vehicle deleted", fiber.Map{"vehicle_id": rec.VehicleID})
}
