package controller

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dto "schooladmin_backend/internals/features/transport/bus_routes/dto"
	m "schooladmin_backend/internals/features/transport/bus_routes/model"
	driverModel "schooladmin_backend/internals/features/transport/drivers/model"
	vehicleModel "schooladmin_backend/internals/features/transport/vehicles/model"
	"schooladmin_backend/internals/testutil"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB, testutil.Identity) {
	t.Helper()
	db := testutil.NewDB(t, &m.BusRouteModel{}, &vehicleModel.VehicleModel{}, &driverModel.DriverModel{})
	id := testutil.AdminIdentity()
	app := testutil.NewApp(id)

	ctl := NewBusRouteController(db, nil)
	app.Post("/bus-routes", ctl.Create)
	app.Get("/bus-routes/list", ctl.List)
	app.Get("/bus-routes/:id", ctl.GetByID)
	app.Patch("/bus-routes/:id", ctl.Patch)
	app.Delete("/bus-routes/:id", ctl.Delete)
	return app, db, id
}

func createRoute(t *testing.T, app *fiber.App, number string, capacity int) dto.BusRouteResponse {
	t.Helper()
	code, env := testutil.Do(t, app, http.MethodPost, "/bus-routes", map[string]any{
		"bus_route_name":             "Route " + number,
		"bus_route_number":           number,
		"bus_route_seating_capacity": capacity,
		"bus_route_stops": []map[string]any{
			{"name": "Gate A", "pickup_time": "06:45", "drop_time": "15:10", "monthly_fee": "350000"},
			{"name": "Market", "pickup_time": "07:00", "drop_time": "15:25", "monthly_fee": 300000},
		},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var out dto.BusRouteResponse
	testutil.DecodeData(t, env, &out)
	return out
}

func TestCreateStartsFullyAvailable(t *testing.T) {
	app, _, _ := setup(t)
	r := createRoute(t, app, "r-01", 40)

	assert.Equal(t, "R-01", r.Number)
	assert.Equal(t, 40, r.SeatingCapacity)
	assert.Equal(t, 40, r.AvailableSeats)
	require.Len(t, r.Stops, 2)
	assert.Equal(t, "06:45", r.Stops[0].PickupTime.String())
	assert.Equal(t, "350000", r.Stops[0].MonthlyFee.String())
}

func TestCreateDuplicateNumberIs400(t *testing.T) {
	app, _, _ := setup(t)
	createRoute(t, app, "R-01", 40)

	code, env := testutil.Do(t, app, http.MethodPost, "/bus-routes", map[string]any{
		"bus_route_name":             "Again",
		"bus_route_number":           "r-01",
		"bus_route_seating_capacity": 10,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Route number already exists", env.Message)
}

func TestCreateValidation(t *testing.T) {
	app, _, _ := setup(t)

	code, env := testutil.Do(t, app, http.MethodPost, "/bus-routes", map[string]any{"bus_route_name": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "required", env.Errors["Number"])

	code, _ = testutil.Do(t, app, http.MethodPost, "/bus-routes", map[string]any{
		"bus_route_name":             "x",
		"bus_route_number":           "X",
		"bus_route_seating_capacity": 10,
		"bus_route_vehicle_id":       uuid.NewString(),
	})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPatchCapacityShiftsAvailableSeats(t *testing.T) {
	app, db, _ := setup(t)
	r := createRoute(t, app, "R-02", 40)

	// 30 seats taken
	require.NoError(t, db.Model(&m.BusRouteModel{}).
		Where("bus_route_id = ?", r.ID).
		Update("bus_route_available_seats", 10).Error)

	code, env := testutil.Do(t, app, http.MethodPatch, "/bus-routes/"+r.ID.String(), map[string]any{
		"bus_route_seating_capacity": 45,
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	var got dto.BusRouteResponse
	testutil.DecodeData(t, env, &got)
	assert.Equal(t, 45, got.SeatingCapacity)
	assert.Equal(t, 15, got.AvailableSeats)

	code, env = testutil.Do(t, app, http.MethodPatch, "/bus-routes/"+r.ID.String(), map[string]any{
		"bus_route_seating_capacity": 20,
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	testutil.DecodeData(t, env, &got)
	assert.Equal(t, 0, got.AvailableSeats)
}

func TestListHasSeatsFilter(t *testing.T) {
	app, db, _ := setup(t)
	full := createRoute(t, app, "R-03", 2)
	createRoute(t, app, "R-04", 2)
	require.NoError(t, db.Model(&m.BusRouteModel{}).
		Where("bus_route_id = ?", full.ID).
		Update("bus_route_available_seats", 0).Error)

	code, env := testutil.Do(t, app, http.MethodGet, "/bus-routes/list?has_seats=true", nil)
	require.Equal(t, http.StatusOK, code)
	var rows []dto.BusRouteResponse
	testutil.DecodeData(t, env, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "R-04", rows[0].Number)
}

func TestDeleteRefusesOccupiedRoute(t *testing.T) {
	app, db, _ := setup(t)
	r := createRoute(t, app, "R-05", 5)
	require.NoError(t, db.Model(&m.BusRouteModel{}).
		Where("bus_route_id = ?", r.ID).
		Update("bus_route_available_seats", 4).Error)

	code, _ := testutil.Do(t, app, http.MethodDelete, "/bus-routes/"+r.ID.String(), nil)
	assert.Equal(t, http.StatusBadRequest, code)

	empty := createRoute(t, app, "R-06", 5)
	code, _ = testutil.Do(t, app, http.MethodDelete, "/bus-routes/"+empty.ID.String(), nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = testutil.Do(t, app, http.MethodGet, "/bus-routes/"+empty.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, code)
}
