package controller

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	driverModel "schooladmin_backend/internals/features/transport/drivers/model"
	dto "schooladmin_backend/internals/features/transport/vehicles/dto"
	m "schooladmin_backend/internals/features/transport/vehicles/model"
	"schooladmin_backend/internals/testutil"
)

func setup(t *testing.T) *fiber.App {
	t.Helper()
	db := testutil.NewDB(t, &m.VehicleModel{}, &driverModel.DriverModel{})
	app := testutil.NewApp(testutil.AdminIdentity())

	ctl := NewVehicleController(db, nil)
	app.Post("/vehicles", ctl.Create)
	app.Get("/vehicles/list", ctl.List)
	app.Get("/vehicles/:id", ctl.GetByID)
	app.Patch("/vehicles/:id", ctl.Patch)
	app.Delete("/vehicles/:id", ctl.Delete)
	return app
}

func TestCreateVehicle(t *testing.T) {
	app := setup(t)

	code, env := testutil.Do(t, app, http.MethodPost, "/vehicles", map[string]any{
		"vehicle_number":           "b 1234  xyz",
		"vehicle_type":             "van",
		"vehicle_capacity":         14,
		"vehicle_insurance_expiry": "31/12/2026",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var got dto.VehicleResponse
	testutil.DecodeData(t, env, &got)
	assert.Equal(t, "B 1234 XYZ", got.Number)
	assert.Equal(t, "van", got.Type)
	assert.Equal(t, "31/12/2026", got.InsuranceExpiry)
	assert.Empty(t, got.FitnessExpiry)
}

func TestDuplicateVehicleNumberIs400(t *testing.T) {
	app := setup(t)
	body := map[string]any{"vehicle_number": "B 1234 XYZ", "vehicle_capacity": 40}

	code, _ := testutil.Do(t, app, http.MethodPost, "/vehicles", body)
	require.Equal(t, http.StatusCreated, code)

	body["vehicle_number"] = "b 1234 xyz"
	code, env := testutil.Do(t, app, http.MethodPost, "/vehicles", body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Vehicle number already exists", env.Message)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
}

func TestVehicleValidation(t *testing.T) {
	app := setup(t)

	code, env := testutil.Do(t, app, http.MethodPost, "/vehicles", map[string]any{
		"vehicle_number":   "X1",
		"vehicle_type":     "truck",
		"vehicle_capacity": 10,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "oneof", env.Errors["Type"])

	code, _ = testutil.Do(t, app, http.MethodPost, "/vehicles", map[string]any{
		"vehicle_number":         "X1",
		"vehicle_capacity":       10,
		"vehicle_fitness_expiry": "2026-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = testutil.Do(t, app, http.MethodPost, "/vehicles", map[string]any{
		"vehicle_number":    "X1",
		"vehicle_capacity":  10,
		"vehicle_driver_id": uuid.NewString(),
	})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPatchAndDeleteVehicle(t *testing.T) {
	app := setup(t)
	_, env := testutil.Do(t, app, http.MethodPost, "/vehicles", map[string]any{"vehicle_number": "A1", "vehicle_capacity": 30})
	var a dto.VehicleResponse
	testutil.DecodeData(t, env, &a)
	_, env = testutil.Do(t, app, http.MethodPost, "/vehicles", map[string]any{"vehicle_number": "A2", "vehicle_capacity": 30})
	var b dto.VehicleResponse
	testutil.DecodeData(t, env, &b)

	code, _ := testutil.Do(t, app, http.MethodPatch, "/vehicles/"+b.ID.String(), map[string]any{"vehicle_number": "a1"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = testutil.Do(t, app, http.MethodPatch, "/vehicles/"+b.ID.String(), map[string]any{"vehicle_capacity": 35})
	require.Equal(t, http.StatusOK, code, env.Message)
	var got dto.VehicleResponse
	testutil.DecodeData(t, env, &got)
	assert.Equal(t, 35, got.Capacity)

	code, _ = testutil.Do(t, app, http.MethodDelete, "/vehicles/"+a.ID.String(), nil)
	require.Equal(t, http.StatusOK, code)

	code, env = testutil.Do(t, app, http.MethodGet, "/vehicles/list", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, env.ResultCount)

	// freed number is reusable once the old row is soft-deleted
	code, _ = testutil.Do(t, app, http.MethodPost, "/vehicles", map[string]any{"vehicle_number": "A1", "vehicle_capacity": 30})
	assert.Equal(t, http.StatusCreated, code)
}
