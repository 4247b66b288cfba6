package controller

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dto "schooladmin_backend/internals/features/finance/fee_types/dto"
	m "schooladmin_backend/internals/features/finance/fee_types/model"
	yearModel "schooladmin_backend/internals/features/school/academics/academic_years/model"
	schoolMiddleware "schooladmin_backend/internals/middlewares/features"
	"schooladmin_backend/internals/testutil"
)

func setup(t *testing.T, withYear bool) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, &yearModel.AcademicYearModel{}, &m.FeeTypeModel{})
	id := testutil.AdminIdentity()
	if withYear {
		testutil.SeedActiveYear(t, db, id.SchoolID, 2025)
	}

	app := testutil.NewApp(id)
	ctl := NewFeeTypeController(db, nil)
	g := app.Group("/fee-types", schoolMiddleware.ResolveActiveAcademicYear(db))
	g.Post("/", ctl.Create)
	g.Get("/list", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
	return app, db
}

func create(t *testing.T, app *fiber.App, body map[string]any) (int, testutil.Envelope) {
	t.Helper()
	return testutil.Do(t, app, http.MethodPost, "/fee-types", body)
}

func TestCreateDerivesCodeFromName(t *testing.T) {
	app, _ := setup(t, true)

	code, env := create(t, app, map[string]any{
		"fee_type_name":     "Bus Fee Term 1",
		"fee_type_category": "transport",
		"fee_type_amount":   1500,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var got dto.FeeTypeResponse
	testutil.DecodeData(t, env, &got)
	assert.Equal(t, "bus-fee-term-1", got.Code)
	assert.Equal(t, "transport", got.Category)
	assert.Equal(t, "1500", got.Amount.String())
	assert.True(t, got.IsActive)
}

func TestCreateNonLatinNamesGetDistinctCodes(t *testing.T) {
	app, _ := setup(t, true)

	codes := map[string]bool{}
	for _, name := range []string{"رسوم الحافلة", "校车费"} {
		code, env := create(t, app, map[string]any{"fee_type_name": name, "fee_type_category": "transport"})
		require.Equal(t, http.StatusCreated, code, env.Message)

		var got dto.FeeTypeResponse
		testutil.DecodeData(t, env, &got)
		assert.Equal(t, name, got.Name)
		assert.Regexp(t, `^fee-[0-9a-f]{8}$`, got.Code)
		codes[got.Code] = true
	}
	assert.Len(t, codes, 2)
}

func TestCreateDuplicateNameIs400(t *testing.T) {
	app, _ := setup(t, true)

	code, _ := create(t, app, map[string]any{"fee_type_name": "Exam Fee", "fee_type_category": "exam"})
	require.Equal(t, http.StatusCreated, code)

	code, env := create(t, app, map[string]any{"fee_type_name": "exam fee", "fee_type_category": "exam", "fee_type_code": "other-code"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Message, "already exists")

	code, _ = create(t, app, map[string]any{"fee_type_name": "Exams", "fee_type_category": "exam", "fee_type_code": "EXAM FEE"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCreateValidation(t *testing.T) {
	app, _ := setup(t, true)

	code, env := create(t, app, map[string]any{"fee_type_name": "Lab", "fee_type_category": "sports"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "oneof", env.Errors["Category"])

	code, _ = create(t, app, map[string]any{"fee_type_name": "Lab", "fee_type_category": "other", "fee_type_amount": -5})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRequiresActiveYear(t *testing.T) {
	app, _ := setup(t, false)
	code, env := create(t, app, map[string]any{"fee_type_name": "Lab", "fee_type_category": "other"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "No active academic year", env.Message)
}

func TestListFiltersAndPaginates(t *testing.T) {
	app, _ := setup(t, true)
	for _, b := range []map[string]any{
		{"fee_type_name": "Tuition Q1", "fee_type_category": "tuition"},
		{"fee_type_name": "Tuition Q2", "fee_type_category": "tuition"},
		{"fee_type_name": "Bus", "fee_type_category": "transport"},
	} {
		code, _ := create(t, app, b)
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := testutil.Do(t, app, http.MethodGet, "/fee-types/list?category=tuition&per_page=1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, env.ResultCount)
	var rows []dto.FeeTypeResponse
	testutil.DecodeData(t, env, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Tuition Q1", rows[0].Name)

	code, env = testutil.Do(t, app, http.MethodGet, "/fee-types/list?q=bus", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, env.ResultCount)

	code, _ = testutil.Do(t, app, http.MethodGet, "/fee-types/list?category=nope", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPatchAndDelete(t *testing.T) {
	app, db := setup(t, true)

	_, env := create(t, app, map[string]any{"fee_type_name": "Admission", "fee_type_category": "admission"})
	var a dto.FeeTypeResponse
	testutil.DecodeData(t, env, &a)
	_, env = create(t, app, map[string]any{"fee_type_name": "Exam", "fee_type_category": "exam"})
	var b dto.FeeTypeResponse
	testutil.DecodeData(t, env, &b)

	// renaming onto another record's name collides
	code, _ := testutil.Do(t, app, http.MethodPatch, "/fee-types/"+b.ID.String(), map[string]any{"fee_type_name": "Admission"})
	assert.Equal(t, http.StatusBadRequest, code)

	// keeping its own name does not
	code, env = testutil.Do(t, app, http.MethodPatch, "/fee-types/"+a.ID.String(), map[string]any{
		"fee_type_name":   "Admission",
		"fee_type_amount": "250.50",
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	var patched dto.FeeTypeResponse
	testutil.DecodeData(t, env, &patched)
	assert.Equal(t, "250.5", patched.Amount.String())

	code, _ = testutil.Do(t, app, http.MethodDelete, "/fee-types/"+a.ID.String(), nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = testutil.Do(t, app, http.MethodGet, "/fee-types/"+a.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, code)

	var n int64
	require.NoError(t, db.Unscoped().Model(&m.FeeTypeModel{}).Where("fee_type_deleted_at IS NOT NULL").Count(&n).Error)
	assert.EqualValues(t, 1, n)

	// soft-deleted names are free again
	code, _ = create(t, app, map[string]any{"fee_type_name": "Admission", "fee_type_category": "admission"})
	assert.Equal(t, http.StatusCreated, code)
}
