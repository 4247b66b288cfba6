package controller

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dto "schooladmin_backend/internals/features/finance/fee_schedules/dto"
	m "schooladmin_backend/internals/features/finance/fee_schedules/model"
	feeTypeModel "schooladmin_backend/internals/features/finance/fee_types/model"
	yearModel "schooladmin_backend/internals/features/school/academics/academic_years/model"
	schoolMiddleware "schooladmin_backend/internals/middlewares/features"
	"schooladmin_backend/internals/testutil"
)

type fixture struct {
	app     *fiber.App
	db      *gorm.DB
	feeType feeTypeModel.FeeTypeModel
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t, &yearModel.AcademicYearModel{}, &feeTypeModel.FeeTypeModel{}, &m.FeeScheduleModel{})
	id := testutil.AdminIdentity()
	year := testutil.SeedActiveYear(t, db, id.SchoolID, 2025)

	ft := feeTypeModel.FeeTypeModel{
		FeeTypeSchoolID:       id.SchoolID,
		FeeTypeAcademicYearID: year.AcademicYearID,
		FeeTypeName:           "Tuition",
		FeeTypeCode:           "tuition",
		FeeTypeCategory:       feeTypeModel.FeeCategoryTuition,
		FeeTypeAmount:         decimal.NewFromInt(1200),
		FeeTypeIsActive:       true,
	}
	require.NoError(t, db.Create(&ft).Error)

	// May 2025; pivot is the active year's first month (April)
	testutil.FixedClock(t, time.Date(2025, time.May, 20, 8, 0, 0, 0, time.UTC))

	app := testutil.NewApp(id)
	ctl := NewFeeScheduleController(db, nil)
	g := app.Group("/fee-schedules", schoolMiddleware.ResolveActiveAcademicYear(db))
	g.Post("/", ctl.Create)
	g.Post("/preview", ctl.Preview)
	g.Get("/list", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
	return fixture{app: app, db: db, feeType: ft}
}

func (f fixture) create(t *testing.T, name string, months []int, dueDay int) (int, testutil.Envelope) {
	t.Helper()
	return testutil.Do(t, f.app, http.MethodPost, "/fee-schedules", map[string]any{
		"fee_schedule_fee_type_id": f.feeType.FeeTypeID.String(),
		"fee_schedule_name":        name,
		"fee_schedule_months":      months,
		"fee_schedule_due_day":     dueDay,
	})
}

// mustCreate posts a schedule that is expected to be accepted.
func (f fixture) mustCreate(t *testing.T, name string, months []int, dueDay int) dto.FeeScheduleResponse {
	t.Helper()
	code, env := f.create(t, name, months, dueDay)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var out dto.FeeScheduleResponse
	testutil.DecodeData(t, env, &out)
	return out
}

func TestCreateGeneratesDates(t *testing.T) {
	f := setup(t)

	code, env := f.create(t, "Quarterly", []int{6, 9, 12, 3}, 10)
	require.Equal(t, http.StatusCreated, code, env.Message)

	var got dto.FeeScheduleResponse
	testutil.DecodeData(t, env, &got)
	assert.Equal(t, []string{"10/06/2025", "10/09/2025", "10/12/2025", "10/03/2026"}, got.Dates)
	assert.Equal(t, "tuition", got.Category)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(1200)))
}

func TestCreateDuplicateIs400(t *testing.T) {
	f := setup(t)

	code, _ := f.create(t, "Monthly", []int{5}, 5)
	require.Equal(t, http.StatusCreated, code)

	code, env := f.create(t, "monthly", []int{6}, 5)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Message, "already exists")
}

func TestCreateValidation(t *testing.T) {
	f := setup(t)

	code, env := f.create(t, "Bad", []int{13}, 5)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.NotEmpty(t, env.Errors)

	code, _ = f.create(t, "Bad", []int{5}, 0)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = testutil.Do(t, f.app, http.MethodPost, "/fee-schedules", map[string]any{
		"fee_schedule_fee_type_id": uuid.NewString(),
		"fee_schedule_name":        "Orphan",
		"fee_schedule_months":      []int{5},
		"fee_schedule_due_day":     5,
	})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPreviewDoesNotPersist(t *testing.T) {
	f := setup(t)

	code, env := testutil.Do(t, f.app, http.MethodPost, "/fee-schedules/preview", map[string]any{
		"fee_schedule_months":  []int{2, 4},
		"fee_schedule_due_day": 30,
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	var got struct {
		Dates []string `json:"fee_schedule_dates"`
	}
	testutil.DecodeData(t, env, &got)
	// Feb 30 2026 rolls to 2 March; April is not after the pivot
	assert.Equal(t, []string{"02/03/2026", "30/04/2026"}, got.Dates)

	var n int64
	require.NoError(t, f.db.Model(&m.FeeScheduleModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPatchRegeneratesDates(t *testing.T) {
	f := setup(t)
	created := f.mustCreate(t, "Term", []int{7}, 1)

	code, env := testutil.Do(t, f.app, http.MethodPatch, "/fee-schedules/"+created.ID.String(), map[string]any{
		"fee_schedule_due_day": 15,
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	var got dto.FeeScheduleResponse
	testutil.DecodeData(t, env, &got)
	assert.Equal(t, []string{"15/07/2025"}, got.Dates)

	code, env = testutil.Do(t, f.app, http.MethodGet, "/fee-schedules/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, code)
	testutil.DecodeData(t, env, &got)
	assert.Equal(t, 15, got.DueDay)
	assert.Equal(t, []string{"15/07/2025"}, got.Dates)
}

func TestListAndDelete(t *testing.T) {
	f := setup(t)
	a := f.mustCreate(t, "Term A", []int{5}, 1)
	f.mustCreate(t, "Term B", []int{6}, 1)

	code, env := testutil.Do(t, f.app, http.MethodGet, "/fee-schedules/list?fee_type_id="+f.feeType.FeeTypeID.String(), nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, env.ResultCount)

	code, _ = testutil.Do(t, f.app, http.MethodDelete, "/fee-schedules/"+a.ID.String(), nil)
	require.Equal(t, http.StatusOK, code)

	code, env = testutil.Do(t, f.app, http.MethodGet, "/fee-schedules/list", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, env.ResultCount)
}
