// file: internals/features/finance/fee_schedules/model/fee_schedule_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FeeScheduleModel struct {
	FeeScheduleID             uuid.UUID `json:"fee_schedule_id"               gorm:"column:fee_schedule_id;type:uuid;primaryKey"`
	FeeScheduleSchoolID       uuid.UUID `json:"fee_schedule_school_id"        gorm:"column:fee_schedule_school_id;type:uuid;not null;index"`
	FeeScheduleAcademicYearID uuid.UUID `json:"fee_schedule_academic_year_id" gorm:"column:fee_schedule_academic_year_id;type:uuid;not null;index"`
	FeeScheduleFeeTypeID      uuid.UUID `json:"fee_schedule_fee_type_id"      gorm:"column:fee_schedule_fee_type_id;type:uuid;not null;index"`

	FeeScheduleName     string `json:"fee_schedule_name"     gorm:"column:fee_schedule_name;type:varchar(120);not null"`
	FeeScheduleCategory string `json:"fee_schedule_category" gorm:"column:fee_schedule_category;type:varchar(20);not null;default:'other'"`

	// target months (1-12) and due day; dates are regenerated from both
	FeeScheduleMonths datatypes.JSONSlice[int]       `json:"fee_schedule_months"  gorm:"column:fee_schedule_months;not null"`
	FeeScheduleDueDay int                            `json:"fee_schedule_due_day" gorm:"column:fee_schedule_due_day;type:smallint;not null"`
	FeeScheduleDates  datatypes.JSONSlice[time.Time] `json:"fee_schedule_dates"   gorm:"column:fee_schedule_dates;not null"`

	FeeScheduleAmount   decimal.Decimal `json:"fee_schedule_amount"    gorm:"column:fee_schedule_amount;type:numeric(12,2);not null;default:0"`
	FeeScheduleIsActive bool            `json:"fee_schedule_is_active" gorm:"column:fee_schedule_is_active;not null;default:true"`

	FeeScheduleCreatedAt time.Time      `json:"fee_schedule_created_at" gorm:"column:fee_schedule_created_at;not null;autoCreateTime"`
	FeeScheduleUpdatedAt time.Time      `json:"fee_schedule_updated_at" gorm:"column:fee_schedule_updated_at;not null;autoUpdateTime"`
	FeeScheduleDeletedAt gorm.DeletedAt `json:"fee_schedule_deleted_at,omitempty" gorm:"column:fee_schedule_deleted_at;index"`
}

func (FeeScheduleModel) TableName() string { return "fee_schedules" }

func (m *FeeScheduleModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeeScheduleID == uuid.Nil {
		m.FeeScheduleID = uuid.New()
	}
	return nil
}
