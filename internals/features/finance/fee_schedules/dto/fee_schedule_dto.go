// file: internals/features/finance/fee_schedules/dto/fee_schedule_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schooladmin_backend/internals/features/finance/fee_schedules/model"
	"schooladmin_backend/internals/helpers/dbtime"
)

/* =========================
   Requests
   ========================= */

type CreateFeeScheduleRequest struct {
	FeeTypeID string           `json:"fee_schedule_fee_type_id" validate:"required,uuid"`
	Name      string           `json:"fee_schedule_name"        validate:"required,min=2,max=120"`
	Category  string           `json:"fee_schedule_category"    validate:"omitempty,oneof=tuition transport admission exam other"`
	Months    []int            `json:"fee_schedule_months"      validate:"required,min=1,max=12,dive,min=1,max=12"`
	DueDay    int              `json:"fee_schedule_due_day"     validate:"required,min=1,max=31"`
	Amount    *decimal.Decimal `json:"fee_schedule_amount"`
	IsActive  *bool            `json:"fee_schedule_is_active"`
}

type PatchFeeScheduleRequest struct {
	Name     *string          `json:"fee_schedule_name"     validate:"omitempty,min=2,max=120"`
	Category *string          `json:"fee_schedule_category" validate:"omitempty,oneof=tuition transport admission exam other"`
	Months   *[]int           `json:"fee_schedule_months"   validate:"omitempty,min=1,max=12,dive,min=1,max=12"`
	DueDay   *int             `json:"fee_schedule_due_day"  validate:"omitempty,min=1,max=31"`
	Amount   *decimal.Decimal `json:"fee_schedule_amount"`
	IsActive *bool            `json:"fee_schedule_is_active"`
}

// PreviewRequest shows the generated dates without persisting.
type PreviewRequest struct {
	Months []int `json:"fee_schedule_months"  validate:"required,min=1,max=12,dive,min=1,max=12"`
	DueDay int   `json:"fee_schedule_due_day" validate:"required,min=1,max=31"`
}

type ListFeeScheduleQuery struct {
	FeeTypeID string `query:"fee_type_id"`
	Category  string `query:"category"`
	Q         string `query:"q"`
	Active    *bool  `query:"active"`
}

/* =========================
   Response
   ========================= */

type FeeScheduleResponse struct {
	ID             uuid.UUID       `json:"fee_schedule_id"`
	SchoolID       uuid.UUID       `json:"fee_schedule_school_id"`
	AcademicYearID uuid.UUID       `json:"fee_schedule_academic_year_id"`
	FeeTypeID      uuid.UUID       `json:"fee_schedule_fee_type_id"`
	Name           string          `json:"fee_schedule_name"`
	Category       string          `json:"fee_schedule_category"`
	Months         []int           `json:"fee_schedule_months"`
	DueDay         int             `json:"fee_schedule_due_day"`
	Dates          []string        `json:"fee_schedule_dates"`
	Amount         decimal.Decimal `json:"fee_schedule_amount"`
	IsActive       bool            `json:"fee_schedule_is_active"`
	CreatedAt      time.Time       `json:"fee_schedule_created_at"`
	UpdatedAt      time.Time       `json:"fee_schedule_updated_at"`
}

/* =========================
   Mappers
   ========================= */

func (r *CreateFeeScheduleRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
}

func (r *CreateFeeScheduleRequest) ToModel(schoolID, yearID, feeTypeID uuid.UUID, dates []time.Time) model.FeeScheduleModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	amount := decimal.Zero
	if r.Amount != nil {
		amount = *r.Amount
	}
	return model.FeeScheduleModel{
		FeeScheduleSchoolID:       schoolID,
		FeeScheduleAcademicYearID: yearID,
		FeeScheduleFeeTypeID:      feeTypeID,
		FeeScheduleName:           r.Name,
		FeeScheduleCategory:       r.Category,
		FeeScheduleMonths:         r.Months,
		FeeScheduleDueDay:         r.DueDay,
		FeeScheduleDates:          dates,
		FeeScheduleAmount:         amount,
		FeeScheduleIsActive:       active,
	}
}

// Apply reports whether months or due day changed (dates need regenerating).
func (r *PatchFeeScheduleRequest) Apply(m *model.FeeScheduleModel) bool {
	if r.Name != nil {
		m.FeeScheduleName = strings.TrimSpace(*r.Name)
	}
	if r.Category != nil {
		m.FeeScheduleCategory = strings.ToLower(strings.TrimSpace(*r.Category))
	}
	if r.Amount != nil {
		m.FeeScheduleAmount = *r.Amount
	}
	if r.IsActive != nil {
		m.FeeScheduleIsActive = *r.IsActive
	}
	regen := false
	if r.Months != nil {
		m.FeeScheduleMonths = *r.Months
		regen = true
	}
	if r.DueDay != nil {
		m.FeeScheduleDueDay = *r.DueDay
		regen = true
	}
	return regen
}

func FormatDates(ts []time.Time, loc *time.Location) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, dbtime.FormatDMY(t, loc))
	}
	return out
}

func FromModel(m model.FeeScheduleModel, loc *time.Location) FeeScheduleResponse {
	months := []int(m.FeeScheduleMonths)
	if months == nil {
		months = []int{}
	}
	return FeeScheduleResponse{
		ID:             m.FeeScheduleID,
		SchoolID:       m.FeeScheduleSchoolID,
		AcademicYearID: m.FeeScheduleAcademicYearID,
		FeeTypeID:      m.FeeScheduleFeeTypeID,
		Name:           m.FeeScheduleName,
		Category:       m.FeeScheduleCategory,
		Months:         months,
		DueDay:         m.FeeScheduleDueDay,
		Dates:          FormatDates(m.FeeScheduleDates, loc),
		Amount:         m.FeeScheduleAmount,
		IsActive:       m.FeeScheduleIsActive,
		CreatedAt:      m.FeeScheduleCreatedAt,
		UpdatedAt:      m.FeeScheduleUpdatedAt,
	}
}

func FromModels(list []model.FeeScheduleModel, loc *time.Location) []FeeScheduleResponse {
	out := make([]FeeScheduleResponse, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it, loc))
	}
	return out
}
