// file: internals/features/transport/student_transports/service/seats.go
package service

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	routeModel "schooladmin_backend/internals/features/transport/bus_routes/model"
	helper "schooladmin_backend/internals/helpers"
)

var (
	ErrRouteNotFound = fiber.NewError(fiber.StatusNotFound, "Bus route not found")
	ErrNoSeats       = fiber.NewError(fiber.StatusBadRequest, "No seats available on this route")
)

func lockRoute(tx *gorm.DB, schoolID, routeID uuid.UUID) (routeModel.BusRouteModel, error) {
	var r routeModel.BusRouteModel
	err := helper.ForUpdate(tx).
		Where("bus_route_id = ? AND bus_route_school_id = ?", routeID, schoolID).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r, ErrRouteNotFound
	}
	return r, err
}

// AllocateSeat takes one seat on the route. Must run inside tx so the row
// lock covers the assignment insert.
func AllocateSeat(tx *gorm.DB, schoolID, routeID uuid.UUID) (routeModel.BusRouteModel, error) {
	r, err := lockRoute(tx, schoolID, routeID)
	if err != nil {
		return r, err
	}
	if r.BusRouteAvailableSeats <= 0 {
		return r, ErrNoSeats
	}
	r.BusRouteAvailableSeats--
	if err := tx.Model(&routeModel.BusRouteModel{}).
		Where("bus_route_id = ?", r.BusRouteID).
		Update("bus_route_available_seats", r.BusRouteAvailableSeats).Error; err != nil {
		return r, errors.Wrap(err, "decrement seats")
	}
	return r, nil
}

// ReleaseSeat gives a seat back, never above capacity. A route deleted in
// the meantime is skipped.
func ReleaseSeat(tx *gorm.DB, schoolID, routeID uuid.UUID) error {
	r, err := lockRoute(tx, schoolID, routeID)
	if errors.Is(err, ErrRouteNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if r.BusRouteAvailableSeats >= r.BusRouteSeatingCapacity {
		return nil
	}
	return errors.Wrap(tx.Model(&routeModel.BusRouteModel{}).
		Where("bus_route_id = ?", r.BusRouteID).
		Update("bus_route_available_seats", r.BusRouteAvailableSeats+1).Error, "release seat")
}
