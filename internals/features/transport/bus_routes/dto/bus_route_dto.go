// file: internals/features/transport/bus_routes/dto/bus_route_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schooladmin_backend/internals/features/transport/bus_routes/model"
	"schooladmin_backend/internals/helpers/dbtime"
)

type StopRequest struct {
	Name       string          `json:"name"        validate:"required,max=120"`
	PickupTime dbtime.Tod      `json:"pickup_time"`
	DropTime   dbtime.Tod      `json:"drop_time"`
	MonthlyFee decimal.Decimal `json:"monthly_fee"`
}

type CreateBusRouteRequest struct {
	Name            string        `json:"bus_route_name"             validate:"required,max=120"`
	Number          string        `json:"bus_route_number"           validate:"required,max=30"`
	SeatingCapacity *int          `json:"bus_route_seating_capacity" validate:"required,min=0,max=500"`
	Stops           []StopRequest `json:"bus_route_stops"            validate:"omitempty,dive"`
	VehicleID       *uuid.UUID    `json:"bus_route_vehicle_id"`
	DriverID        *uuid.UUID    `json:"bus_route_driver_id"`
}

type PatchBusRouteRequest struct {
	Name            *string        `json:"bus_route_name"             validate:"omitempty,max=120"`
	Number          *string        `json:"bus_route_number"           validate:"omitempty,max=30"`
	SeatingCapacity *int           `json:"bus_route_seating_capacity" validate:"omitempty,min=0,max=500"`
	Stops           *[]StopRequest `json:"bus_route_stops"            validate:"omitempty,dive"`
	VehicleID       *uuid.UUID     `json:"bus_route_vehicle_id"`
	DriverID        *uuid.UUID     `json:"bus_route_driver_id"`
}

type BusRouteResponse struct {
	ID              uuid.UUID         `json:"bus_route_id"`
	SchoolID        uuid.UUID         `json:"bus_route_school_id"`
	Name            string            `json:"bus_route_name"`
	Number          string            `json:"bus_route_number"`
	SeatingCapacity int               `json:"bus_route_seating_capacity"`
	AvailableSeats  int               `json:"bus_route_available_seats"`
	Stops           []model.RouteStop `json:"bus_route_stops"`
	VehicleID       *uuid.UUID        `json:"bus_route_vehicle_id,omitempty"`
	DriverID        *uuid.UUID        `json:"bus_route_driver_id,omitempty"`
	CreatedAt       time.Time         `json:"bus_route_created_at"`
	UpdatedAt       time.Time         `json:"bus_route_updated_at"`
}

func toStops(in []StopRequest) []model.RouteStop {
	out := make([]model.RouteStop, 0, len(in))
	for _, s := range in {
		out = append(out, model.RouteStop{
			Name:       strings.TrimSpace(s.Name),
			PickupTime: s.PickupTime,
			DropTime:   s.DropTime,
			MonthlyFee: s.MonthlyFee,
		})
	}
	return out
}

func hasNegativeFee(in []StopRequest) bool {
	for _, s := range in {
		if s.MonthlyFee.IsNegative() {
			return true
		}
	}
	return false
}

func (r *CreateBusRouteRequest) HasNegativeFee() bool { return hasNegativeFee(r.Stops) }

func (r *PatchBusRouteRequest) HasNegativeFee() bool {
	return r.Stops != nil && hasNegativeFee(*r.Stops)
}

// ToModel starts with every seat available.
func (r *CreateBusRouteRequest) ToModel(schoolID uuid.UUID) model.BusRouteModel {
	return model.BusRouteModel{
		BusRouteSchoolID:        schoolID,
		BusRouteName:            strings.TrimSpace(r.Name),
		BusRouteNumber:          strings.ToUpper(strings.TrimSpace(r.Number)),
		BusRouteSeatingCapacity: *r.SeatingCapacity,
		BusRouteAvailableSeats:  *r.SeatingCapacity,
		BusRouteStops:           toStops(r.Stops),
		BusRouteVehicleID:       r.VehicleID,
		BusRouteDriverID:        r.DriverID,
	}
}

func (r *PatchBusRouteRequest) Apply(m *model.BusRouteModel) error {
	if r.Name != nil {
		m.BusRouteName = strings.TrimSpace(*r.Name)
	}
	if r.Number != nil {
		m.BusRouteNumber = strings.ToUpper(strings.TrimSpace(*r.Number))
	}
	if r.Stops != nil {
		m.BusRouteStops = toStops(*r.Stops)
	}
	if r.VehicleID != nil {
		m.BusRouteVehicleID = r.VehicleID
	}
	if r.DriverID != nil {
		m.BusRouteDriverID = r.DriverID
	}
	if r.SeatingCapacity != nil {
		return m.ResizeCapacity(*r.SeatingCapacity)
	}
	return nil
}

func FromModel(m model.BusRouteModel) BusRouteResponse {
	stops := []model.RouteStop(m.BusRouteStops)
	if stops == nil {
		stops = []model.RouteStop{}
	}
	return BusRouteResponse{
		ID:              m.BusRouteID,
		SchoolID:        m.BusRouteSchoolID,
		Name:            m.BusRouteName,
		Number:          m.BusRouteNumber,
		SeatingCapacity: m.BusRouteSeatingCapacity,
		AvailableSeats:  m.BusRouteAvailableSeats,
		Stops:           stops,
		VehicleID:       m.BusRouteVehicleID,
		DriverID:        m.BusRouteDriverID,
		CreatedAt:       m.BusRouteCreatedAt,
		UpdatedAt:       m.BusRouteUpdatedAt,
	}
}

func FromModels(list []model.BusRouteModel) []BusRouteResponse {
	out := make([]BusRouteResponse, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it))
	}
	return out
}
