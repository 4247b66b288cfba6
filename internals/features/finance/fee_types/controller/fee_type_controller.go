// file: internals/features/finance/fee_types/controller/fee_type_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "schooladmin_backend/internals/features/finance/fee_types/dto"
	m "schooladmin_backend/internals/features/finance/fee_types/model"
	yearModel "schooladmin_backend/internals/features/school/academics/academic_years/model"
	yearSvc "schooladmin_backend/internals/features/school/academics/academic_years/service"
	helper "schooladmin_backend/internals/helpers"
	helperAuth "schooladmin_backend/internals/helpers/auth"
)

/* =========================
   Controller
========================= */

type FeeTypeController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewFeeTypeController(db *gorm.DB, v *validator.Validate) *FeeTypeController {
	if v == nil {
		v = validator.New()
	}
	return &FeeTypeController{DB: db, Validator: v}
}

/* =========================
   Utils
========================= */

// scope returns tenant + active academic year (set by ResolveActiveAcademicYear).
func scope(c *fiber.Ctx) (uuid.UUID, yearModel.AcademicYearModel, error) {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return uuid.Nil, yearModel.AcademicYearModel{}, err
	}
	year, ok := yearSvc.ActiveYearFrom(c)
	if !ok || year.AcademicYearSchoolID != schoolID {
		return uuid.Nil, yearModel.AcademicYearModel{}, helper.NotFound("No active academic year")
	}
	return schoolID, year, nil
}

var errDuplicate = helper.BadRequest("Fee type with the same name or code already exists")

func (ctl *FeeTypeController) ensureUnique(db *gorm.DB, schoolID, yearID uuid.UUID, name, code string, exclude *uuid.UUID) error {
	q := db.Model(&m.FeeTypeModel{}).
		Where("fee_type_school_id = ? AND fee_type_academic_year_id = ?", schoolID, yearID).
		Where("(LOWER(fee_type_name) = ? OR LOWER(fee_type_code) = ?)", strings.ToLower(name), strings.ToLower(code))
	if exclude != nil {
		q = q.Where("fee_type_id <> ?", *exclude)
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return errDuplicate
	}
	return nil
}

func (ctl *FeeTypeController) load(db *gorm.DB, schoolID, yearID, id uuid.UUID) (m.FeeTypeModel, error) {
	var rec m.FeeTypeModel
	err := db.Where("fee_type_id = ? AND fee_type_school_id = ? AND fee_type_academic_year_id = ?", id, schoolID, yearID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, helper.NotFound("Fee type not found")
	}
	return rec, err
}

/* =========================
   Create
   POST /fee-types
========================= */

func (ctl *FeeTypeController) Create(c *fiber.Ctx) error {
	schoolID, year, err := scope(c)
	if err != nil {
		return err
	}

	var req dto.CreateFeeTypeRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	req.Normalize()
	if req.Amount != nil && req.Amount.IsNegative() {
		return helper.BadRequest("fee_type_amount must be >= 0")
	}

	db := ctl.DB.WithContext(c.Context())
	if err := ctl.ensureUnique(db, schoolID, year.AcademicYearID, req.Name, req.Code, nil); err != nil {
		return err
	}

	rec := req.ToModel(schoolID, year.AcademicYearID)
	if err := db.Create(&rec).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return errDuplicate
		}
		return err
	}
	return helper.JsonCreated(c, "Fee type created", dto.FromModel(rec))
}

/* =========================
   List
   GET /fee-types/list?category=&q=&active=&page=&per_page=
========================= */

func (ctl *FeeTypeController) List(c *fiber.Ctx) error {
	schoolID, year, err := scope(c)
	if err != nil {
		return err
	}

	var q dto.ListFeeTypeQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.BadRequest("Invalid query")
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := ctl.DB.WithContext(c.Context()).Model(&m.FeeTypeModel{}).
		Where("fee_type_school_id = ? AND fee_type_academic_year_id = ?", schoolID, year.AcademicYearID)
	if cat := strings.ToLower(strings.TrimSpace(q.Category)); cat != "" {
		if !m.FeeCategory(cat).Valid() {
			return helper.BadRequest("Invalid category")
		}
		tx = tx.Where("fee_type_category = ?", cat)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("(LOWER(fee_type_name) LIKE ? OR LOWER(fee_type_code) LIKE ?)", like, like)
	}
	if q.Active != nil {
		tx = tx.Where("fee_type_is_active = ?", *q.Active)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return err
	}
	var rows []m.FeeTypeModel
	if err := tx.Order("fee_type_name ASC").Offset(paging.Offset).Limit(paging.Limit).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, paging))
}

func (ctl *FeeTypeController) GetByID(c *fiber.Ctx) error {
	schoolID, year, err := scope(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	rec, err := ctl.load(ctl.DB.WithContext(c.Context()), schoolID, year.AcademicYearID, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.FromModel(rec))
}

/* =========================
   Patch
   PATCH /fee-types/:id
========================= */

func (ctl *FeeTypeController) Patch(c *fiber.Ctx) error {
	schoolID, year, err := scope(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.PatchFeeTypeRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		return helper.BadRequest("fee_type_amount must be >= 0")
	}

	db := ctl.DB.WithContext(c.Context())
	rec, err := ctl.load(db, schoolID, year.AcademicYearID, id)
	if err != nil {
		return err
	}
	req.Apply(&rec)
	if strings.TrimSpace(rec.FeeTypeName) == "" {
		return helper.BadRequest("fee_type_name cannot be empty")
	}

	if req.Name != nil || req.Code != nil {
		if err := ctl.ensureUnique(db, schoolID, year.AcademicYearID, rec.FeeTypeName, rec.FeeTypeCode, &rec.FeeTypeID); err != nil {
			return err
		}
	}

	if err := db.Save(&rec).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return errDuplicate
		}
		return err
	}
	return helper.JsonUpdated(c, "Fee type updated", dto.FromModel(rec))
}

/* =========================
   Delete (soft)
   DELETE /fee-types/:id
========================= */

func (ctl *FeeTypeController) Delete(c *fiber.Ctx) error {
	schoolID, year, err := scope(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	db := ctl.DB.WithContext(c.Context())
	rec, err := ctl.load(db, schoolID, year.AcademicYearID, id)
	if err != nil {
		return err
	}
	if err := db.Delete(&rec).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Fee type deleted", fiber.Map{"fee_type_id": rec.FeeTypeID})
}
