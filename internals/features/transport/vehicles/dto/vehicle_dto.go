// file: internals/features/transport/vehicles/dto/vehicle_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schooladmin_backend/internals/features/transport/vehicles/model"
	"schooladmin_backend/internals/helpers/dbtime"
)

// Expiry dates are DD/MM/YYYY.
type CreateVehicleRequest struct {
	Number          string     `json:"vehicle_number"           validate:"required,max=30"`
	Model           *string    `json:"vehicle_model"            validate:"omitempty,max=120"`
	Type            string     `json:"vehicle_type"             validate:"omitempty,oneof=bus van car"`
	Capacity        int        `json:"vehicle_capacity"         validate:"required,min=1,max=500"`
	InsuranceExpiry *string    `json:"vehicle_insurance_expiry"`
	FitnessExpiry   *string    `json:"vehicle_fitness_expiry"`
	DriverID        *uuid.UUID `json:"vehicle_driver_id"`
	IsActive        *bool      `json:"vehicle_is_active"`
}

type PatchVehicleRequest struct {
	Number          *string    `json:"vehicle_number"           validate:"omitempty,max=30"`
	Model           *string    `json:"vehicle_model"            validate:"omitempty,max=120"`
	Type            *string    `json:"vehicle_type"             validate:"omitempty,oneof=bus van car"`
	Capacity        *int       `json:"vehicle_capacity"         validate:"omitempty,min=1,max=500"`
	InsuranceExpiry *string    `json:"vehicle_insurance_expiry"`
	FitnessExpiry   *string    `json:"vehicle_fitness_expiry"`
	DriverID        *uuid.UUID `json:"vehicle_driver_id"`
	IsActive        *bool      `json:"vehicle_is_active"`
}

type VehicleResponse struct {
	ID              uuid.UUID  `json:"vehicle_id"`
	SchoolID        uuid.UUID  `json:"vehicle_school_id"`
	Number          string     `json:"vehicle_number"`
	Model           *string    `json:"vehicle_model,omitempty"`
	Type            string     `json:"vehicle_type"`
	Capacity        int        `json:"vehicle_capacity"`
	InsuranceExpiry string     `json:"vehicle_insurance_expiry,omitempty"`
	FitnessExpiry   string     `json:"vehicle_fitness_expiry,omitempty"`
	DriverID        *uuid.UUID `json:"vehicle_driver_id,omitempty"`
	IsActive        bool       `json:"vehicle_is_active"`
	CreatedAt       time.Time  `json:"vehicle_created_at"`
	UpdatedAt       time.Time  `json:"vehicle_updated_at"`
}

func NormalizeNumber(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func (r *CreateVehicleRequest) ToModel(schoolID uuid.UUID, loc *time.Location) (model.VehicleModel, error) {
	ins, err := dbtime.ParseDMYPtr(r.InsuranceExpiry, loc)
	if err != nil {
		return model.VehicleModel{}, err
	}
	fit, err := dbtime.ParseDMYPtr(r.FitnessExpiry, loc)
	if err != nil {
		return model.VehicleModel{}, err
	}
	typ := model.VehicleTypeBus
	if r.Type != "" {
		typ = model.VehicleType(strings.ToLower(r.Type))
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.VehicleModel{
		VehicleSchoolID:        schoolID,
		VehicleNumber:          NormalizeNumber(r.Number),
		VehicleModel:           r.Model,
		VehicleType:            typ,
		VehicleCapacity:        r.Capacity,
		VehicleInsuranceExpiry: ins,
		VehicleFitnessExpiry:   fit,
		VehicleDriverID:        r.DriverID,
		VehicleIsActive:        active,
	}, nil
}

func (r *PatchVehicleRequest) Apply(m *model.VehicleModel, loc *time.Location) error {
	if r.Number != nil {
		m.VehicleNumber = NormalizeNumber(*r.Number)
	}
	if r.Model != nil {
		m.VehicleModel = r.Model
	}
	if r.Type != nil {
		m.VehicleType = model.VehicleType(strings.ToLower(*r.Type))
	}
	if r.Capacity != nil {
		m.VehicleCapacity = *r.Capacity
	}
	if r.InsuranceExpiry != nil {
		t, err := dbtime.ParseDMYPtr(r.InsuranceExpiry, loc)
		if err != nil {
			return err
		}
		m.VehicleInsuranceExpiry = t
	}
	if r.FitnessExpiry != nil {
		t, err := dbtime.ParseDMYPtr(r.FitnessExpiry, loc)
		if err != nil {
			return err
		}
		m.VehicleFitnessExpiry = t
	}
	if r.DriverID != nil {
		m.VehicleDriverID = r.DriverID
	}
	if r.IsActive != nil {
		m.VehicleIsActive = *r.IsActive
	}
	return nil
}

func fmtPtr(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return dbtime.FormatDMY(*t, loc)
}

func FromModel(m model.VehicleModel, loc *time.Location) VehicleResponse {
	return VehicleResponse{
		ID:              m.VehicleID,
		SchoolID:        m.VehicleSchoolID,
		Number:          m.VehicleNumber,
		Model:           m.VehicleModel,
		Type:            string(m.VehicleType),
		Capacity:        m.VehicleCapacity,
		InsuranceExpiry: fmtPtr(m.VehicleInsuranceExpiry, loc),
		FitnessExpiry:   fmtPtr(m.VehicleFitnessExpiry, loc),
		DriverID:        m.VehicleDriverID,
		IsActive:        m.VehicleIsActive,
		CreatedAt:       m.VehicleCreatedAt,
		UpdatedAt:       m.VehicleUpdatedAt,
	}
}

func FromModels(list []model.VehicleModel, loc *time.Location) []VehicleResponse {
	out := make([]VehicleResponse, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it, loc))
	}
	return out
}
