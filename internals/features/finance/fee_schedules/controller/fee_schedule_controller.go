// file: internals/features/finance/fee_schedules/controller/fee_schedule_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "schooladmin_backend/internals/features/finance/fee_schedules/dto"
	m "schooladmin_backend/internals/features/finance/fee_schedules/model"
	scheduleSvc "schooladmin_backend/internals/features/finance/fee_schedules/service"
	feeTypeModel "schooladmin_backend/internals/features/finance/fee_types/model"
	yearModel "schooladmin_backend/internals/features/school/academics/academic_years/model"
	yearSvc "schooladmin_backend/internals/features/school/academics/academic_years/service"
	helper "schooladmin_backend/internals/helpers"
	helperAuth "schooladmin_backend/internals/helpers/auth"
	"schooladmin_backend/internals/helpers/dbtime"
)

type FeeScheduleController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewFeeScheduleController(db *gorm.DB, v *validator.Validate) *FeeScheduleController {
	if v == nil {
		v = validator.New()
	}
	return &FeeScheduleController{DB: db, Validator: v}
}

var errDuplicate = helper.BadRequest("Fee schedule with this name already exists for the fee type")

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

// dates are anchored on the active year's month list
func generate(c *fiber.Ctx, year yearModel.AcademicYearModel, months []int, dueDay int) []time.Time {
	loc := dbtime.GetSchoolLocation(c)
	return scheduleSvc.GenerateScheduleDates(months, dueDay, year.AcademicYearMonths, dbtime.NowIn(loc), loc)
}

func (ctl *FeeScheduleController) ensureUnique(db *gorm.DB, schoolID, yearID, feeTypeID uuid.UUID, name string, exclude *uuid.UUID) error {
	q := db.Model(&m.FeeScheduleModel{}).
		Where("fee_schedule_school_id = ? AND fee_schedule_academic_year_id = ? AND fee_schedule_fee_type_id = ?", schoolID, yearID, feeTypeID).
		Where("LOWER(fee_schedule_name) = ?", strings.ToLower(name))
	if exclude != nil {
		q = q.Where("fee_schedule_id <> ?", *exclude)
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

func (ctl *FeeScheduleController) load(db *gorm.DB, schoolID, yearID, id uuid.UUID) (m.FeeScheduleModel, error) {
	var rec m.FeeScheduleModel
	err := db.Where("fee_schedule_id = ? AND fee_schedule_school_id = ? AND fee_schedule_academic_year_id = ?", id, schoolID, yearID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, helper.NotFound("Fee schedule not found")
	}
	return rec, err
}

/* =========================
   Create
   POST /fee-schedules
========================= */

func (ctl *FeeScheduleController) Create(c *fiber.Ctx) error {
	schoolID, year, err := scope(c)
	if err != nil {
		return err
	}

	var req dto.CreateFeeScheduleRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	req.Normalize()
	if req.Amount != nil && req.Amount.IsNegative() {
		return helper.BadRequest("fee_schedule_amount must be >= 0")
	}
	feeTypeID := uuid.MustParse(req.FeeTypeID)

	db := ctl.DB.WithContext(c.Context())

	var ft feeTypeModel.FeeTypeModel
	if err := db.Where("fee_type_id = ? AND fee_type_school_id = ? AND fee_type_academic_year_id = ?",
		feeTypeID, schoolID, year.AcademicYearID).First(&ft).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.NotFound("Fee type not found")
		}
		return err
	}
	if req.Category == "" {
		req.Category = string(ft.FeeTypeCategory)
	}
	if req.Amount == nil {
		amt := ft.FeeTypeAmount
		req.Amount = &amt
	}

	if err := ctl.ensureUnique(db, schoolID, year.AcademicYearID, feeTypeID, req.Name, nil); err != nil {
		return err
	}

	rec := req.ToModel(schoolID, year.AcademicYearID, feeTypeID, generate(c, year, req.Months, req.DueDay))
	if err := db.Create(&rec).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return errDuplicate
		}
		return err
	}
	return helper.JsonCreated(c, "Fee schedule created", dto.FromModel(rec, dbtime.GetSchoolLocation(c)))
}

/* =========================
   Preview
   POST /fee-schedules/preview
========================= */

func (ctl *FeeScheduleController) Preview(c *fiber.Ctx) error {
	_, year, err := scope(c)
	if err != nil {
		return err
	}
	var req dto.PreviewRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"fee_schedule_months":  req.Months,
		"fee_schedule_due_day": req.DueDay,
		"fee_schedule_dates":   dto.FormatDates(generate(c, year, req.Months, req.DueDay), dbtime.GetSchoolLocation(c)),
	})
}

/* =========================
   List / Get
========================= */

func (ctl *FeeScheduleController) List(c *fiber.Ctx) error {
	schoolID, year, err := scope(c)
	if err != nil {
		return err
	}

	var q dto.ListFeeScheduleQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.BadRequest("Invalid query")
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := ctl.DB.WithContext(c.Context()).Model(&m.FeeScheduleModel{}).
		Where("fee_schedule_school_id = ? AND fee_schedule_academic_year_id = ?", schoolID, year.AcademicYearID)
	if s := strings.TrimSpace(q.FeeTypeID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.BadRequest("Invalid fee_type_id")
		}
		tx = tx.Where("fee_schedule_fee_type_id = ?", id)
	}
	if cat := strings.ToLower(strings.TrimSpace(q.Category)); cat != "" {
		tx = tx.Where("fee_schedule_category = ?", cat)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		tx = tx.Where("LOWER(fee_schedule_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if q.Active != nil {
		tx = tx.Where("fee_schedule_is_active = ?", *q.Active)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return err
	}
	var rows []m.FeeScheduleModel
	if err := tx.Order("fee_schedule_created_at DESC").Offset(paging.Offset).Limit(paging.Limit).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows, dbtime.GetSchoolLocation(c)), helper.BuildPagination(total, paging))
}

func (ctl *FeeScheduleController) GetByID(c *fiber.Ctx) error {
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
	return helper.JsonOK(c, "ok", dto.FromModel(rec, dbtime.GetSchoolLocation(c)))
}

/* =========================
   Patch
   PATCH /fee-schedules/:id
========================= */

func (ctl *FeeScheduleController) Patch(c *fiber.Ctx) error {
	schoolID, year, err := scope(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.PatchFeeScheduleRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		return helper.BadRequest("fee_schedule_amount must be >= 0")
	}

	db := ctl.DB.WithContext(c.Context())
	rec, err := ctl.load(db, schoolID, year.AcademicYearID, id)
	if err != nil {
		return err
	}

	if req.Apply(&rec) {
		rec.FeeScheduleDates = generate(c, year, rec.FeeScheduleMonths, rec.FeeScheduleDueDay)
	}
	if req.Name != nil {
		if rec.FeeScheduleName == "" {
			return helper.BadRequest("fee_schedule_name cannot be empty")
		}
		if err := ctl.ensureUnique(db, schoolID, year.AcademicYearID, rec.FeeScheduleFeeTypeID, rec.FeeScheduleName, &rec.FeeScheduleID); err != nil {
			return err
		}
	}

	if err := db.Save(&rec).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return errDuplicate
		}
		return err
	}
	return helper.JsonUpdated(c, "Fee schedule updated", dto.FromModel(rec, dbtime.GetSchoolLocation(c)))
}

func (ctl *FeeScheduleController) Delete(c *fiber.Ctx) error {
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
	return helper.JsonDeleted(c, "Fee schedule deleted", fiber.Map{"fee_schedule_id": rec.FeeScheduleID})
}
