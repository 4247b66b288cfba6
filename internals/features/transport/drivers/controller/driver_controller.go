// file: internals/features/transport/drivers/controller/driver_controller.go
package controller

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schooladmin_backend/internals/constants"
	dto "schooladmin_backend/internals/features/transport/drivers/dto"
	m "schooladmin_backend/internals/features/transport/drivers/model"
	helper "schooladmin_backend/internals/helpers"
	helperAuth "schooladmin_backend/internals/helpers/auth"
	"schooladmin_backend/internals/helpers/dbtime"
	helperOSS "schooladmin_backend/internals/helpers/oss"
)

// DocumentStore is satisfied by *helperOSS.ImageStore.
type DocumentStore interface {
	UploadImageAsWebP(ctx context.Context, fh *multipart.FileHeader, dir string) (string, error)
}

type DriverController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Store     DocumentStore // nil → uploads answer 503
}

func NewDriverController(db *gorm.DB, v *validator.Validate, store DocumentStore) *DriverController {
	if v == nil {
		v = validator.New()
	}
	return &DriverController{DB: db, Validator: v, Store: store}
}

var errDuplicateLicense = helper.BadRequest("Driver with this license number already exists")

func (ctl *DriverController) ensureUniqueLicense(db *gorm.DB, schoolID uuid.UUID, license string, exclude *uuid.UUID) error {
	q := db.Model(&m.DriverModel{}).
		Where("driver_school_id = ? AND UPPER(driver_license_number) = ?", schoolID, strings.ToUpper(license))
	if exclude != nil {
		q = q.Where("driver_id <> ?", *exclude)
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return errDuplicateLicense
	}
	return nil
}

func (ctl *DriverController) load(db *gorm.DB, schoolID, id uuid.UUID) (m.DriverModel, error) {
	var rec m.DriverModel
	err := db.Where("driver_id = ? AND driver_school_id = ?", id, schoolID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, helper.NotFound("Driver not found")
	}
	return rec, err
}

// POST /drivers
func (ctl *DriverController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	var req dto.CreateDriverRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	rec, err := req.ToModel(schoolID, dbtime.GetSchoolLocation(c))
	if err != nil {
		return helper.BadRequest(err.Error())
	}

	db := ctl.DB.WithContext(c.Context())
	if err := ctl.ensureUniqueLicense(db, schoolID, rec.DriverLicenseNumber, nil); err != nil {
		return err
	}
	if err := db.Create(&rec).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return errDuplicateLicense
		}
		return err
	}
	return helper.JsonCreated(c, "Driver created", dto.FromModel(rec, dbtime.GetSchoolLocation(c)))
}

// GET /drivers/list?q=&active=
func (ctl *DriverController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := ctl.DB.WithContext(c.Context()).Model(&m.DriverModel{}).Where("driver_school_id = ?", schoolID)
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("(LOWER(driver_name) LIKE ? OR LOWER(driver_license_number) LIKE ? OR driver_phone LIKE ?)", like, like, like)
	}
	if c.Query("active") != "" {
		tx = tx.Where("driver_is_active = ?", c.QueryBool("active"))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return err
	}
	var rows []m.DriverModel
	if err := tx.Order("driver_name ASC").Offset(paging.Offset).Limit(paging.Limit).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows, dbtime.GetSchoolLocation(c)), helper.BuildPagination(total, paging))
}

func (ctl *DriverController) GetByID(c *fiber.Ctx) error {
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

// PATCH /drivers/:id
func (ctl *DriverController) Patch(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.PatchDriverRequest
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
	if req.LicenseNumber != nil {
		if rec.DriverLicenseNumber == "" {
			return helper.BadRequest("driver_license_number cannot be empty")
		}
		if err := ctl.ensureUniqueLicense(db, schoolID, rec.DriverLicenseNumber, &rec.DriverID); err != nil {
			return err
		}
	}
	if err := db.Save(&rec).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return errDuplicateLicense
		}
		return err
	}
	return helper.JsonUpdated(c, "Driver updated", dto.FromModel(rec, dbtime.GetSchoolLocation(c)))
}

// DELETE /drivers/:id (soft)
func (ctl *DriverController) Delete(c *fiber.Ctx) error {
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
	return helper.JsonDeleted(c, "Driver deleted", fiber.Map{"driver_id": rec.DriverID})
}

/* =========================
   Documents
   POST /drivers/:id/documents/:kind   (multipart "file")
   kind: photo | license
========================= */

func (ctl *DriverController) UploadDocument(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	kind := strings.ToLower(c.Params("kind"))
	if kind != "photo" && kind != "license" {
		return helper.BadRequest("kind must be photo or license")
	}
	if ctl.Store == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Document storage is not configured")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.BadRequest("file is required")
	}
	if constants.DetectFileTypeFromExt(fh.Filename) != constants.FileTypeImage {
		return helper.BadRequest("Only png, jpg or webp images are accepted")
	}

	db := ctl.DB.WithContext(c.Context())
	rec, err := ctl.load(db, schoolID, id)
	if err != nil {
		return err
	}

	dir := "schools/" + schoolID.String() + "/drivers/" + kind
	url, err := ctl.Store.UploadImageAsWebP(c.Context(), fh, dir)
	if err != nil {
		if errors.Is(err, helperOSS.ErrOSSNotConfigured) {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Document storage is not configured")
		}
		log.Printf("[WARN] driver %s upload %s: %v", rec.DriverID, kind, err)
		return helper.BadRequest("Upload failed: " + err.Error())
	}

	col := "driver_photo_url"
	if kind == "license" {
		col = "driver_license_url"
		rec.DriverLicenseURL = &url
	} else {
		rec.DriverPhotoURL = &url
	}
	if err := db.Model(&rec).Update(col, url).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Driver document uploaded", dto.FromModel(rec, dbtime.GetSchoolLocation(c)))
}
