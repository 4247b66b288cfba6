// file: internals/features/finance/fee_types/dto/fee_type_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schooladmin_backend/internals/features/finance/fee_types/model"
	helper "schooladmin_backend/internals/helpers"
)

/* =========================
   Requests
   ========================= */

type CreateFeeTypeRequest struct {
	Name        string           `json:"fee_type_name"        validate:"required,min=2,max=120"`
	Code        string           `json:"fee_type_code"        validate:"omitempty,max=60"`
	Category    string           `json:"fee_type_category"    validate:"required,oneof=tuition transport admission exam other"`
	Description *string          `json:"fee_type_description" validate:"omitempty,max=2000"`
	Amount      *decimal.Decimal `json:"fee_type_amount"`
	IsActive    *bool            `json:"fee_type_is_active"`
}

type PatchFeeTypeRequest struct {
	Name        *string          `json:"fee_type_name"        validate:"omitempty,min=2,max=120"`
	Code        *string          `json:"fee_type_code"        validate:"omitempty,max=60"`
	Category    *string          `json:"fee_type_category"    validate:"omitempty,oneof=tuition transport admission exam other"`
	Description *string          `json:"fee_type_description" validate:"omitempty,max=2000"`
	Amount      *decimal.Decimal `json:"fee_type_amount"`
	IsActive    *bool            `json:"fee_type_is_active"`
}

type ListFeeTypeQuery struct {
	Category string `query:"category"`
	Q        string `query:"q"`
	Active   *bool  `query:"active"`
}

/* =========================
   Response
   ========================= */

type FeeTypeResponse struct {
	ID             uuid.UUID       `json:"fee_type_id"`
	SchoolID       uuid.UUID       `json:"fee_type_school_id"`
	AcademicYearID uuid.UUID       `json:"fee_type_academic_year_id"`
	Name           string          `json:"fee_type_name"`
	Code           string          `json:"fee_type_code"`
	Category       string          `json:"fee_type_category"`
	Description    *string         `json:"fee_type_description,omitempty"`
	Amount         decimal.Decimal `json:"fee_type_amount"`
	IsActive       bool            `json:"fee_type_is_active"`
	CreatedAt      time.Time       `json:"fee_type_created_at"`
	UpdatedAt      time.Time       `json:"fee_type_updated_at"`
}

/* =========================
   Mappers
   ========================= */

// codeFallback prefixes generated codes for names with no Latin letters or digits.
const codeFallback = "fee"

// Normalize trims input and derives the code from the name when empty.
func (r *CreateFeeTypeRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	r.Code = strings.TrimSpace(r.Code)
	if r.Code == "" {
		r.Code = helper.SlugifyUnique(r.Name, 60, codeFallback)
	} else {
		r.Code = helper.SlugifyUnique(r.Code, 60, codeFallback)
	}
	if r.Description != nil {
		s := strings.TrimSpace(*r.Description)
		r.Description = &s
	}
}

func (r *CreateFeeTypeRequest) ToModel(schoolID, yearID uuid.UUID) model.FeeTypeModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	amount := decimal.Zero
	if r.Amount != nil {
		amount = *r.Amount
	}
	return model.FeeTypeModel{
		FeeTypeSchoolID:       schoolID,
		FeeTypeAcademicYearID: yearID,
		FeeTypeName:           r.Name,
		FeeTypeCode:           r.Code,
		FeeTypeCategory:       model.FeeCategory(r.Category),
		FeeTypeDescription:    r.Description,
		FeeTypeAmount:         amount,
		FeeTypeIsActive:       active,
	}
}

func (r *PatchFeeTypeRequest) Apply(m *model.FeeTypeModel) {
	if r.Name != nil {
		m.FeeTypeName = strings.TrimSpace(*r.Name)
	}
	if r.Code != nil {
		m.FeeTypeCode = helper.SlugifyUnique(*r.Code, 60, codeFallback)
	}
	if r.Category != nil {
		m.FeeTypeCategory = model.FeeCategory(strings.ToLower(strings.TrimSpace(*r.Category)))
	}
	if r.Description != nil {
		s := strings.TrimSpace(*r.Description)
		m.FeeTypeDescription = &s
	}
	if r.Amount != nil {
		m.FeeTypeAmount = *r.Amount
	}
	if r.IsActive != nil {
		m.FeeTypeIsActive = *r.IsActive
	}
}

func FromModel(m model.FeeTypeModel) FeeTypeResponse {
	return FeeTypeResponse{
		ID:             m.FeeTypeID,
		SchoolID:       m.FeeTypeSchoolID,
		AcademicYearID: m.FeeTypeAcademicYearID,
		Name:           m.FeeTypeName,
		Code:           m.FeeTypeCode,
		Category:       string(m.FeeTypeCategory),
		Description:    m.FeeTypeDescription,
		Amount:         m.FeeTypeAmount,
		IsActive:       m.FeeTypeIsActive,
		CreatedAt:      m.FeeTypeCreatedAt,
		UpdatedAt:      m.FeeTypeUpdatedAt,
	}
}

func FromModels(list []model.FeeTypeModel) []FeeTypeResponse {
	out := make([]FeeTypeResponse, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it))
	}
	return out
}
