// file: internals/features/school/academics/academic_years/controller/academic_year_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "schooladmin_backend/internals/features/school/academics/academic_years/dto"
	model "schooladmin_backend/internals/features/school/academics/academic_years/model"
	yearSvc "schooladmin_backend/internals/features/school/academics/academic_years/service"
	helper "schooladmin_backend/internals/helpers"
	helperAuth "schooladmin_backend/internals/helpers/auth"
	"schooladmin_backend/internals/helpers/dbtime"
)

/* ============================================
   Controller
============================================ */

type AcademicYearController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Cache     *yearSvc.ActiveYearCache
}

func NewAcademicYearController(db *gorm.DB, v *validator.Validate) *AcademicYearController {
	if v == nil {
		v = validator.New()
	}
	return &AcademicYearController{DB: db, Validator: v, Cache: yearSvc.ActiveYears}
}

func (ctl *AcademicYearController) findScoped(db *gorm.DB, schoolID, id uuid.UUID) (model.AcademicYearModel, error) {
	var ent model.AcademicYearModel
	err := db.Where("academic_year_school_id = ? AND academic_year_id = ?", schoolID, id).First(&ent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ent, helper.NotFound("Academic year not found")
	}
	return ent, err
}

func parseRange(startRaw, endRaw string, loc *time.Location) (time.Time, time.Time, []int, error) {
	start, err := dbtime.ParseDMY(startRaw, loc)
	if err != nil {
		return time.Time{}, time.Time{}, nil, helper.BadRequest("academic_year_start_date: " + err.Error())
	}
	end, err := dbtime.ParseDMY(endRaw, loc)
	if err != nil {
		return time.Time{}, time.Time{}, nil, helper.BadRequest("academic_year_end_date: " + err.Error())
	}
	months, err := yearSvc.ExpandMonths(start, end, loc)
	if err != nil {
		return time.Time{}, time.Time{}, nil, helper.BadRequest("Start date must not be after end date")
	}
	return start, end, months, nil
}

/* ============================================
   CREATE
   POST /academic-years
============================================ */

func (ctl *AcademicYearController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}

	var p dto.AcademicYearCreateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return err
	}
	p.Normalize()

	start, end, months, err := parseRange(p.AcademicYearStartDate, p.AcademicYearEndDate, dbtime.GetSchoolLocation(c))
	if err != nil {
		return err
	}

	ent := p.ToModel(schoolID, start, end, months)
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ent).Error; err != nil {
			return err
		}
		if !p.WantsActive() {
			return nil
		}
		if err := yearSvc.Activate(tx, schoolID, ent.AcademicYearID); err != nil {
			return err
		}
		ent.AcademicYearIsActive = true
		return nil
	})
	if err != nil {
		return err
	}
	if ent.AcademicYearIsActive {
		ctl.Cache.Invalidate(schoolID)
	}
	return helper.JsonCreated(c, "Academic year created", dto.FromModel(ent, dbtime.GetSchoolLocation(c)))
}

/* ============================================
   LIST
   GET /academic-years/list?active=&q=&page=&per_page=
============================================ */

func (ctl *AcademicYearController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}

	var q dto.AcademicYearFilterDTO
	if err := c.QueryParser(&q); err != nil {
		return helper.BadRequest("Invalid query")
	}
	paging := helper.ResolvePaging(c, 20, 100)

	tx := ctl.DB.Model(&model.AcademicYearModel{}).Where("academic_year_school_id = ?", schoolID)
	if q.Active != nil {
		tx = tx.Where("academic_year_is_active = ?", *q.Active)
	}
	if q.Search != nil && strings.TrimSpace(*q.Search) != "" {
		tx = tx.Where("LOWER(academic_year_name) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(*q.Search))+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return err
	}

	var rows []model.AcademicYearModel
	if err := tx.Order("academic_year_start_date DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows, dbtime.GetSchoolLocation(c)), helper.BuildPagination(total, paging))
}

/* ============================================
   GET ACTIVE
   GET /academic-years/active
============================================ */

func (ctl *AcademicYearController) GetActive(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	year, err := ctl.Cache.Resolve(ctl.DB, schoolID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.NotFound("No active academic year")
	}
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.FromModel(year, dbtime.GetSchoolLocation(c)))
}

func (ctl *AcademicYearController) GetByID(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	ent, err := ctl.findScoped(ctl.DB, schoolID, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.FromModel(ent, dbtime.GetSchoolLocation(c)))
}

/* ============================================
   PATCH
   PATCH /academic-years/:id
============================================ */

func (ctl *AcademicYearController) Patch(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var p dto.AcademicYearUpdateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return err
	}

	loc := dbtime.GetSchoolLocation(c)

	var ent model.AcademicYearModel
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		cur, err := ctl.findScoped(tx, schoolID, id)
		if err != nil {
			return err
		}

		if p.AcademicYearName != nil {
			cur.AcademicYearName = strings.TrimSpace(*p.AcademicYearName)
		}
		if p.TouchesDates() {
			startRaw := dbtime.FormatDMY(cur.AcademicYearStartDate, loc)
			endRaw := dbtime.FormatDMY(cur.AcademicYearEndDate, loc)
			if p.AcademicYearStartDate != nil {
				startRaw = *p.AcademicYearStartDate
			}
			if p.AcademicYearEndDate != nil {
				endRaw = *p.AcademicYearEndDate
			}
			start, end, months, err := parseRange(startRaw, endRaw, loc)
			if err != nil {
				return err
			}
			cur.AcademicYearStartDate, cur.AcademicYearEndDate = start, end
			cur.AcademicYearMonths = months
		}

		if err := tx.Model(&cur).Select(
			"academic_year_name",
			"academic_year_start_date",
			"academic_year_end_date",
			"academic_year_months",
			"academic_year_updated_at",
		).Updates(&cur).Error; err != nil {
			return err
		}

		if p.AcademicYearIsActive != nil {
			if *p.AcademicYearIsActive {
				if err := yearSvc.Activate(tx, schoolID, cur.AcademicYearID); err != nil {
					return err
				}
			} else if err := tx.Model(&cur).Update("academic_year_is_active", false).Error; err != nil {
				return err
			}
			cur.AcademicYearIsActive = *p.AcademicYearIsActive
		}
		ent = cur
		return nil
	})
	if err != nil {
		return err
	}

	ctl.Cache.Invalidate(schoolID)
	return helper.JsonUpdated(c, "Academic year updated", dto.FromModel(ent, loc))
}

/* ============================================
   SET ACTIVE
   PATCH /academic-years/:id/set-active
============================================ */

func (ctl *AcademicYearController) SetActive(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var ent model.AcademicYearModel
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := yearSvc.Activate(tx, schoolID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("Academic year not found")
			}
			return err
		}
		var ferr error
		ent, ferr = ctl.findScoped(tx, schoolID, id)
		return ferr
	})
	if err != nil {
		return err
	}

	ctl.Cache.Invalidate(schoolID)
	return helper.JsonUpdated(c, "Academic year activated", dto.FromModel(ent, dbtime.GetSchoolLocation(c)))
}

/* ============================================
   DELETE (soft) & RESTORE
============================================ */

func (ctl *AcademicYearController) Delete(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	ent, err := ctl.findScoped(ctl.DB, schoolID, id)
	if err != nil {
		return err
	}
	if err := ctl.DB.Delete(&ent).Error; err != nil {
		return err
	}

	ctl.Cache.Invalidate(schoolID)
	return helper.JsonDeleted(c, "Academic year deleted", fiber.Map{"academic_year_id": ent.AcademicYearID})
}

func (ctl *AcademicYearController) Restore(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var ent model.AcademicYearModel
	if err := ctl.DB.Unscoped().
		Where("academic_year_school_id = ? AND academic_year_id = ? AND academic_year_deleted_at IS NOT NULL", schoolID, id).
		First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.NotFound("Deleted academic year not found")
		}
		return err
	}

	if err := ctl.DB.Unscoped().Model(&ent).Update("academic_year_deleted_at", nil).Error; err != nil {
		return err
	}
	ent.AcademicYearDeletedAt = gorm.DeletedAt{}

	ctl.Cache.Invalidate(schoolID)
	return helper.JsonOK(c, "Academic year restored", dto.FromModel(ent, dbtime.GetSchoolLocation(c)))
}
