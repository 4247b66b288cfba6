// file: internals/features/finance/fee_types/model/fee_type_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* =========================
   Enums
   ========================= */

type FeeCategory string

const (
	FeeCategoryTuition   FeeCategory = "tuition"
	FeeCategoryTransport FeeCategory = "transport"
	FeeCategoryAdmission FeeCategory = "admission"
	FeeCategoryExam      FeeCategory = "exam"
	FeeCategoryOther     FeeCategory = "other"
)

func (c FeeCategory) Valid() bool {
	switch c {
	case FeeCategoryTuition, FeeCategoryTransport, FeeCategoryAdmission, FeeCategoryExam, FeeCategoryOther:
		return true
	}
	return false
}

/* =========================
   Model
   ========================= */

type FeeTypeModel struct {
	FeeTypeID             uuid.UUID `json:"fee_type_id"               gorm:"column:fee_type_id;type:uuid;primaryKey"`
	FeeTypeSchoolID       uuid.UUID `json:"fee_type_school_id"        gorm:"column:fee_type_school_id;type:uuid;not null;index"`
	FeeTypeAcademicYearID uuid.UUID `json:"fee_type_academic_year_id" gorm:"column:fee_type_academic_year_id;type:uuid;not null;index"`

	FeeTypeName        string      `json:"fee_type_name"                  gorm:"column:fee_type_name;type:varchar(120);not null"`
	FeeTypeCode        string      `json:"fee_type_code"                  gorm:"column:fee_type_code;type:varchar(60);not null"`
	FeeTypeCategory    FeeCategory `json:"fee_type_category"              gorm:"column:fee_type_category;type:varchar(20);not null;default:'other'"`
	FeeTypeDescription *string     `json:"fee_type_description,omitempty" gorm:"column:fee_type_description;type:text"`

	// default amount; schedules may override
	FeeTypeAmount decimal.Decimal `json:"fee_type_amount" gorm:"column:fee_type_amount;type:numeric(12,2);not null;default:0"`

	FeeTypeIsActive bool `json:"fee_type_is_active" gorm:"column:fee_type_is_active;not null;default:true"`

	FeeTypeCreatedAt time.Time      `json:"fee_type_created_at" gorm:"column:fee_type_created_at;not null;autoCreateTime"`
	FeeTypeUpdatedAt time.Time      `json:"fee_type_updated_at" gorm:"column:fee_type_updated_at;not null;autoUpdateTime"`
	FeeTypeDeletedAt gorm.DeletedAt `json:"fee_type_deleted_at,omitempty" gorm:"column:fee_type_deleted_at;index"`
}

func (FeeTypeModel) TableName() string { return "fee_types" }

func (m *FeeTypeModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeeTypeID == uuid.Nil {
		m.FeeTypeID = uuid.New()
	}
	return nil
}
