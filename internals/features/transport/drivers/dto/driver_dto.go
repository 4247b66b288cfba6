// file: internals/features/transport/drivers/dto/driver_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schooladmin_backend/internals/features/transport/drivers/model"
	"schooladmin_backend/internals/helpers/dbtime"
)

type CreateDriverRequest struct {
	Name          string  `json:"driver_name"           validate:"required,min=2,max=120"`
	Phone         string  `json:"driver_phone"          validate:"required,min=6,max=30"`
	LicenseNumber string  `json:"driver_license_number" validate:"required,max=60"`
	LicenseExpiry *string `json:"driver_license_expiry"` // DD/MM/YYYY
	Address       *string `json:"driver_address"        validate:"omitempty,max=500"`
	IsActive      *bool   `json:"driver_is_active"`
}

type PatchDriverRequest struct {
	Name          *string `json:"driver_name"           validate:"omitempty,min=2,max=120"`
	Phone         *string `json:"driver_phone"          validate:"omitempty,min=6,max=30"`
	LicenseNumber *string `json:"driver_license_number" validate:"omitempty,max=60"`
	LicenseExpiry *string `json:"driver_license_expiry"`
	Address       *string `json:"driver_address"        validate:"omitempty,max=500"`
	IsActive      *bool   `json:"driver_is_active"`
}

type DriverResponse struct {
	ID            uuid.UUID `json:"driver_id"`
	SchoolID      uuid.UUID `json:"driver_school_id"`
	Name          string    `json:"driver_name"`
	Phone         string    `json:"driver_phone"`
	LicenseNumber string    `json:"driver_license_number"`
	LicenseExpiry string    `json:"driver_license_expiry,omitempty"`
	Address       *string   `json:"driver_address,omitempty"`
	PhotoURL      *string   `json:"driver_photo_url,omitempty"`
	LicenseURL    *string   `json:"driver_license_url,omitempty"`
	IsActive      bool      `json:"driver_is_active"`
	CreatedAt     time.Time `json:"driver_created_at"`
	UpdatedAt     time.Time `json:"driver_updated_at"`
}

func NormalizeLicense(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

func (r *CreateDriverRequest) ToModel(schoolID uuid.UUID, loc *time.Location) (model.DriverModel, error) {
	exp, err := dbtime.ParseDMYPtr(r.LicenseExpiry, loc)
	if err != nil {
		return model.DriverModel{}, err
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.DriverModel{
		DriverSchoolID:      schoolID,
		DriverName:          strings.TrimSpace(r.Name),
		DriverPhone:         strings.TrimSpace(r.Phone),
		DriverLicenseNumber: NormalizeLicense(r.LicenseNumber),
		DriverLicenseExpiry: exp,
		DriverAddress:       trimPtr(r.Address),
		DriverIsActive:      active,
	}, nil
}

func (r *PatchDriverRequest) Apply(m *model.DriverModel, loc *time.Location) error {
	if r.Name != nil {
		m.DriverName = strings.TrimSpace(*r.Name)
	}
	if r.Phone != nil {
		m.DriverPhone = strings.TrimSpace(*r.Phone)
	}
	if r.LicenseNumber != nil {
		m.DriverLicenseNumber = NormalizeLicense(*r.LicenseNumber)
	}
	if r.LicenseExpiry != nil {
		exp, err := dbtime.ParseDMYPtr(r.LicenseExpiry, loc)
		if err != nil {
			return err
		}
		m.DriverLicenseExpiry = exp
	}
	if r.Address != nil {
		m.DriverAddress = trimPtr(r.Address)
	}
	if r.IsActive != nil {
		m.DriverIsActive = *r.IsActive
	}
	return nil
}

func FromModel(m model.DriverModel, loc *time.Location) DriverResponse {
	out := DriverResponse{
		ID:            m.DriverID,
		SchoolID:      m.DriverSchoolID,
		Name:          m.DriverName,
		Phone:         m.DriverPhone,
		LicenseNumber: m.DriverLicenseNumber,
		Address:       m.DriverAddress,
		PhotoURL:      m.DriverPhotoURL,
		LicenseURL:    m.DriverLicenseURL,
		IsActive:      m.DriverIsActive,
		CreatedAt:     m.DriverCreatedAt,
		UpdatedAt:     m.DriverUpdatedAt,
	}
	if m.DriverLicenseExpiry != nil {
		out.LicenseExpiry = dbtime.FormatDMY(*m.DriverLicenseExpiry, loc)
	}
	return out
}

func FromModels(list []model.DriverModel, loc *time.Location) []DriverResponse {
	out := make([]DriverResponse, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it, loc))
	}
	return out
}
