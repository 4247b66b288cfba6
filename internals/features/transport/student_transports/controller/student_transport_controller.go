// file: internals/features/transport/student_transports/controller/student_transport_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schooladmin_backend/internals/constants"
	"schooladmin_backend/internals/events"
	yearModel "schooladmin_backend/internals/features/school/academics/academic_years/model"
	yearSvc "schooladmin_backend/internals/features/school/academics/academic_years/service"
	routeModel "schooladmin_backend/internals/features/transport/bus_routes/model"
	dto "schooladmin_backend/internals/features/transport/student_transports/dto"
	m "schooladmin_backend/internals/features/transport/student_transports/model"
	svc "schooladmin_backend/internals/features/transport/student_transports/service"
	helper "schooladmin_backend/internals/helpers"
	helperAuth "schooladmin_backend/internals/helpers/auth"
	"schooladmin_backend/internals/helpers/dbtime"
)

/* =========================
   Controller
========================= */

type StudentTransportController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Events    events.Publisher
	Gateway   svc.Gateway
	ServerKey string // Midtrans, for notification signatures

	// OwnStudentsOnly limits non-staff callers to their own students (user routes).
	OwnStudentsOnly bool
}

func NewStudentTransportController(db *gorm.DB, v *validator.Validate, pub events.Publisher, gw svc.Gateway, serverKey string) *StudentTransportController {
	if v == nil {
		v = validator.New()
	}
	if pub == nil {
		pub = events.Noop{}
	}
	return &StudentTransportController{DB: db, Validator: v, Events: pub, Gateway: gw, ServerKey: serverKey}
}

/* =========================
   Utils
========================= */

var (
	errDuplicateAssignment = helper.BadRequest("Student already has a transport assignment this academic year")
	errStopNotOnRoute      = helper.BadRequest("Stop not found on route")
	errFeeNotFound         = helper.NotFound("Fee entry not found")
)

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

func (ctl *StudentTransportController) ensureStudent(c *fiber.Ctx, studentID uuid.UUID) error {
	if !ctl.OwnStudentsOnly {
		return nil
	}
	return helperAuth.EnsureOwnStudent(c, studentID, constants.FinanceStaff)
}

func feesOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("student_transport_fee_year ASC, student_transport_fee_month ASC")
}

func (ctl *StudentTransportController) load(db *gorm.DB, schoolID, id uuid.UUID, withFees bool) (m.StudentTransportModel, error) {
	var rec m.StudentTransportModel
	q := db.Where("student_transport_id = ? AND student_transport_school_id = ?", id, schoolID)
	if withFees {
		q = q.Preload("Fees", feesOrdered)
	}
	err := q.First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, helper.NotFound("Student transport not found")
	}
	return rec, err
}

func (ctl *StudentTransportController) ensureNotAssigned(db *gorm.DB, schoolID, yearID, studentID uuid.UUID) error {
	var cnt int64
	if err := db.Model(&m.StudentTransportModel{}).
		Where("student_transport_school_id = ? AND student_transport_academic_year_id = ? AND student_transport_student_id = ?",
			schoolID, yearID, studentID).
		Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return errDuplicateAssignment
	}
	return nil
}

func loadRoute(db *gorm.DB, schoolID, routeID uuid.UUID) (routeModel.BusRouteModel, error) {
	var r routeModel.BusRouteModel
	err := db.Where("bus_route_id = ? AND bus_route_school_id = ?", routeID, schoolID).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r, svc.ErrRouteNotFound
	}
	return r, err
}

/* =========================
   Create
   POST /student-transports
========================= */

func (ctl *StudentTransportController) Create(c *fiber.Ctx) error {
	schoolID, year, err := scope(c)
	if err != nil {
		return err
	}

	var req dto.CreateStudentTransportRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if req.MonthlyFee != nil && req.MonthlyFee.IsNegative() {
		return helper.BadRequest("student_transport_monthly_fee must be >= 0")
	}

	var months []string
	if len(req.Months) == 0 {
		months = svc.MonthNames(year.AcademicYearMonths)
	} else if months, err = svc.NormalizeMonths(req.Months); err != nil {
		return helper.BadRequest(err.Error())
	}

	if req.MonthlyFee == nil && req.Stop() == "" {
		return helper.BadRequest("student_transport_stop_name or student_transport_monthly_fee is required")
	}

	now := dbtime.NowIn(dbtime.GetSchoolLocation(c))

	var rec m.StudentTransportModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := ctl.ensureNotAssigned(tx, schoolID, year.AcademicYearID, req.StudentID); err != nil {
			return err
		}
		route, err := svc.AllocateSeat(tx, schoolID, req.RouteID)
		if err != nil {
			return err
		}

		fee := req.MonthlyFee
		if stop := req.Stop(); stop != "" {
			s, ok := route.StopByName(stop)
			if !ok {
				return errStopNotOnRoute
			}
			if fee == nil {
				fee = &s.MonthlyFee
			}
		}

		rec = req.ToModel(schoolID, year.AcademicYearID, *fee, months)
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			if helper.IsDuplicateKey(err) {
				return errDuplicateAssignment
			}
			return err
		}

		fees := svc.SeedLedger(rec, now)
		if len(fees) > 0 {
			if err := tx.Create(&fees).Error; err != nil {
				return err
			}
		}
		rec.Fees = fees
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Student transport created", dto.FromModel(rec, dbtime.GetSchoolLocation(c)))
}

/* =========================
   List / Get
   GET /student-transports/list?route_id=&student_id=&active=
========================= */

func (ctl *StudentTransportController) List(c *fiber.Ctx) error {
	schoolID, year, err := scope(c)
	if err != nil {
		return err
	}
	var q dto.ListStudentTransportQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.BadRequest("Invalid query")
	}
	paging := helper.ResolvePaging(c, 20, 200)

	tx := ctl.DB.WithContext(c.Context()).Model(&m.StudentTransportModel{}).
		Where("student_transport_school_id = ? AND student_transport_academic_year_id = ?", schoolID, year.AcademicYearID)
	if s := strings.TrimSpace(q.RouteID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.BadRequest("Invalid route_id")
		}
		tx = tx.Where("student_transport_route_id = ?", id)
	}
	if s := strings.TrimSpace(q.StudentID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.BadRequest("Invalid student_id")
		}
		tx = tx.Where("student_transport_student_id = ?", id)
	}
	if q.Active != nil {
		tx = tx.Where("student_transport_is_active = ?", *q.Active)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return err
	}
	var rows []m.StudentTransportModel
	if err := tx.Order("student_transport_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows, dbtime.GetSchoolLocation(c)), helper.BuildPagination(total, paging))
}

func (ctl *StudentTransportController) GetByID(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	rec, err := ctl.load(ctl.DB.WithContext(c.Context()), schoolID, id, true)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.FromModel(rec, dbtime.GetSchoolLocation(c)))
}

// GET /student-transports/student/:student_id
func (ctl *StudentTransportController) ListByStudent(c *fiber.Ctx) error {
	schoolID, year, err := scope(c)
	if err != nil {
		return err
	}
	studentID, err := helper.ParseUUIDParam(c, "student_id")
	if err != nil {
		return err
	}
	if err := ctl.ensureStudent(c, studentID); err != nil {
		return err
	}

	var rows []m.StudentTransportModel
	if err := ctl.DB.WithContext(c.Context()).
		Preload("Fees", feesOrdered).
		Where("student_transport_school_id = ? AND student_transport_academic_year_id = ? AND student_transport_student_id = ?",
			schoolID, year.AcademicYearID, studentID).
		Order("student_transport_created_at DESC").
		Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.FromModels(rows, dbtime.GetSchoolLocation(c)))
}

/* =========================
   Patch
   PATCH /student-transports/:id
========================= */

func (ctl *StudentTransportController) Patch(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.PatchStudentTransportRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if req.MonthlyFee != nil && req.MonthlyFee.IsNegative() {
		return helper.BadRequest("student_transport_monthly_fee must be >= 0")
	}

	var rec m.StudentTransportModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		cur, err := ctl.load(helper.ForUpdate(tx), schoolID, id, false)
		if err != nil {
			return err
		}

		newFee := req.MonthlyFee
		if req.StopName != nil {
			stop := strings.TrimSpace(*req.StopName)
			if stop == "" {
				cur.StudentTransportStopName = nil
			} else {
				route, err := loadRoute(tx, schoolID, cur.StudentTransportRouteID)
				if err != nil {
					return err
				}
				s, ok := route.StopByName(stop)
				if !ok {
					return errStopNotOnRoute
				}
				cur.StudentTransportStopName = &stop
				// a new stop brings its own price unless one is given
				if newFee == nil {
					newFee = &s.MonthlyFee
				}
			}
		}
		if req.IsActive != nil {
			cur.StudentTransportIsActive = *req.IsActive
		}

		if newFee != nil && !newFee.Equal(cur.StudentTransportMonthlyFee) {
			cur.StudentTransportMonthlyFee = *newFee
			var open []m.StudentTransportFeeModel
			if err := tx.Where("student_transport_fee_student_transport_id = ? AND student_transport_fee_status IN ?",
				cur.StudentTransportID, []m.FeeStatus{m.FeeStatusUpcoming, m.FeeStatusDue}).
				Find(&open).Error; err != nil {
				return err
			}
			for i := range open {
				if svc.Reprice(&open[i], *newFee) {
					if err := tx.Save(&open[i]).Error; err != nil {
						return err
					}
				}
			}
		}

		if err := tx.Omit(clause.Associations).Save(&cur).Error; err != nil {
			return err
		}
		rec, err = ctl.load(tx, schoolID, id, true)
		return err
	})
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Student transport updated", dto.FromModel(rec, dbtime.GetSchoolLocation(c)))
}

/* =========================
   Delete
   DELETE /student-transports/:id
========================= */

func (ctl *StudentTransportController) Delete(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var rec m.StudentTransportModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		cur, err := ctl.load(helper.ForUpdate(tx), schoolID, id, false)
		if err != nil {
			return err
		}
		if err := tx.Delete(&cur).Error; err != nil {
			return err
		}
		rec = cur
		return svc.ReleaseSeat(tx, schoolID, cur.StudentTransportRouteID)
	})
	if err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Student transport deleted", fiber.Map{"student_transport_id": rec.StudentTransportID})
}
