// file: internals/features/school/academics/academic_years/dto/academic_year_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schooladmin_backend/internals/features/school/academics/academic_years/model"
	"schooladmin_backend/internals/helpers/dbtime"
)

// =======================
// Request DTO
// =======================

// Dates travel as DD/MM/YYYY.
type AcademicYearCreateDTO struct {
	AcademicYearName      string `json:"academic_year_name"       validate:"required,min=4,max=50"`
	AcademicYearStartDate string `json:"academic_year_start_date" validate:"required"`
	AcademicYearEndDate   string `json:"academic_year_end_date"   validate:"required"`
	// pointer: bedakan "tidak dikirim" vs "false"
	AcademicYearIsActive *bool `json:"academic_year_is_active,omitempty"`
}

type AcademicYearUpdateDTO struct {
	AcademicYearName      *string `json:"academic_year_name,omitempty"       validate:"omitempty,min=4,max=50"`
	AcademicYearStartDate *string `json:"academic_year_start_date,omitempty"`
	AcademicYearEndDate   *string `json:"academic_year_end_date,omitempty"`
	AcademicYearIsActive  *bool   `json:"academic_year_is_active,omitempty"`
}

type AcademicYearFilterDTO struct {
	Active *bool   `query:"active"`
	Search *string `query:"q"`
}

// =======================
// Response DTO
// =======================

type AcademicYearResponseDTO struct {
	AcademicYearID        uuid.UUID  `json:"academic_year_id"`
	AcademicYearSchoolID  uuid.UUID  `json:"academic_year_school_id"`
	AcademicYearName      string     `json:"academic_year_name"`
	AcademicYearStartDate string     `json:"academic_year_start_date"`
	AcademicYearEndDate   string     `json:"academic_year_end_date"`
	AcademicYearMonths    []int      `json:"academic_year_months"`
	AcademicYearIsActive  bool       `json:"academic_year_is_active"`
	AcademicYearCreatedAt time.Time  `json:"academic_year_created_at"`
	AcademicYearUpdatedAt time.Time  `json:"academic_year_updated_at"`
	AcademicYearDeletedAt *time.Time `json:"academic_year_deleted_at,omitempty"`
}

// =======================
// Helpers
// =======================

func (p *AcademicYearCreateDTO) Normalize() {
	p.AcademicYearName = strings.TrimSpace(p.AcademicYearName)
	p.AcademicYearStartDate = strings.TrimSpace(p.AcademicYearStartDate)
	p.AcademicYearEndDate = strings.TrimSpace(p.AcademicYearEndDate)
}

func (p *AcademicYearCreateDTO) WantsActive() bool {
	return p.AcademicYearIsActive != nil && *p.AcademicYearIsActive
}

// ToModel leaves is_active false; activation goes through the sweep.
func (p *AcademicYearCreateDTO) ToModel(schoolID uuid.UUID, start, end time.Time, months []int) model.AcademicYearModel {
	return model.AcademicYearModel{
		AcademicYearSchoolID:  schoolID,
		AcademicYearName:      p.AcademicYearName,
		AcademicYearStartDate: start,
		AcademicYearEndDate:   end,
		AcademicYearMonths:    months,
	}
}

func (u *AcademicYearUpdateDTO) TouchesDates() bool {
	return u.AcademicYearStartDate != nil || u.AcademicYearEndDate != nil
}

func FromModel(ent model.AcademicYearModel, loc *time.Location) AcademicYearResponseDTO {
	out := AcademicYearResponseDTO{
		AcademicYearID:        ent.AcademicYearID,
		AcademicYearSchoolID:  ent.AcademicYearSchoolID,
		AcademicYearName:      ent.AcademicYearName,
		AcademicYearStartDate: dbtime.FormatDMY(ent.AcademicYearStartDate, loc),
		AcademicYearEndDate:   dbtime.FormatDMY(ent.AcademicYearEndDate, loc),
		AcademicYearMonths:    []int(ent.AcademicYearMonths),
		AcademicYearIsActive:  ent.AcademicYearIsActive,
		AcademicYearCreatedAt: ent.AcademicYearCreatedAt,
		AcademicYearUpdatedAt: ent.AcademicYearUpdatedAt,
	}
	if out.AcademicYearMonths == nil {
		out.AcademicYearMonths = []int{}
	}
	if ent.AcademicYearDeletedAt.Valid {
		t := ent.AcademicYearDeletedAt.Time
		out.AcademicYearDeletedAt = &t
	}
	return out
}

func FromModels(list []model.AcademicYearModel, loc *time.Location) []AcademicYearResponseDTO {
	out := make([]AcademicYearResponseDTO, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it, loc))
	}
	return out
}
