// file: internals/features/transport/bus_routes/model/bus_route_model.go
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"schooladmin_backend/internals/helpers/dbtime"
)

// RouteStop is one pickup point; stored inside bus_route_stops (JSONB).
type RouteStop struct {
	Name       string          `json:"name"`
	PickupTime dbtime.Tod      `json:"pickup_time"`
	DropTime   dbtime.Tod      `json:"drop_time"`
	MonthlyFee decimal.Decimal `json:"monthly_fee"`
}

type BusRouteModel struct {
	BusRouteID       uuid.UUID `json:"bus_route_id"        gorm:"column:bus_route_id;type:uuid;primaryKey"`
	BusRouteSchoolID uuid.UUID `json:"bus_route_school_id" gorm:"column:bus_route_school_id;type:uuid;not null;index"`

	BusRouteName   string `json:"bus_route_name"   gorm:"column:bus_route_name;type:varchar(120);not null"`
	BusRouteNumber string `json:"bus_route_number" gorm:"column:bus_route_number;type:varchar(30);not null"`

	BusRouteSeatingCapacity int `json:"bus_route_seating_capacity" gorm:"column:bus_route_seating_capacity;not null"`
	// 0 <= available <= capacity
	BusRouteAvailableSeats int `json:"bus_route_available_seats" gorm:"column:bus_route_available_seats;not null"`

	BusRouteStops datatypes.JSONSlice[RouteStop] `json:"bus_route_stops" gorm:"column:bus_route_stops;not null"`

	BusRouteVehicleID *uuid.UUID `json:"bus_route_vehicle_id,omitempty" gorm:"column:bus_route_vehicle_id;type:uuid"`
	BusRouteDriverID  *uuid.UUID `json:"bus_route_driver_id,omitempty"  gorm:"column:bus_route_driver_id;type:uuid"`

	BusRouteCreatedAt time.Time      `json:"bus_route_created_at" gorm:"column:bus_route_created_at;not null;autoCreateTime"`
	BusRouteUpdatedAt time.Time      `json:"bus_route_updated_at" gorm:"column:bus_route_updated_at;not null;autoUpdateTime"`
	BusRouteDeletedAt gorm.DeletedAt `json:"bus_route_deleted_at,omitempty" gorm:"column:bus_route_deleted_at;index"`
}

func (BusRouteModel) TableName() string { return "bus_routes" }

func (m *BusRouteModel) BeforeCreate(tx *gorm.DB) error {
	if m.BusRouteID == uuid.Nil {
		m.BusRouteID = uuid.New()
	}
	return nil
}

// StopByName matches case-sensitively, as stored.
func (m *BusRouteModel) StopByName(name string) (RouteStop, bool) {
	for _, s := range m.BusRouteStops {
		if s.Name == name {
			return s, true
		}
	}
	return RouteStop{}, false
}

var ErrCapacityBelowZero = errors.New("seating capacity must be >= 0")

// ResizeCapacity shifts available seats by the capacity delta, clamped to
// [0, newCapacity].
func (m *BusRouteModel) ResizeCapacity(newCapacity int) error {
	if newCapacity < 0 {
		return ErrCapacityBelowZero
	}
	delta := newCapacity - m.BusRouteSeatingCapacity
	avail := m.BusRouteAvailableSeats + delta
	if avail < 0 {
		avail = 0
	}
	if avail > newCapacity {
		avail = newCapacity
	}
	m.BusRouteSeatingCapacity = newCapacity
	m.BusRouteAvailableSeats = avail
	return nil
}
