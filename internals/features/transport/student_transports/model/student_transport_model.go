// file: internals/features/transport/student_transports/model/student_transport_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudentTransportModel assigns one student to one route for an academic year.
type StudentTransportModel struct {
	StudentTransportID             uuid.UUID `json:"student_transport_id"               gorm:"column:student_transport_id;type:uuid;primaryKey"`
	StudentTransportSchoolID       uuid.UUID `json:"student_transport_school_id"        gorm:"column:student_transport_school_id;type:uuid;not null;index"`
	StudentTransportAcademicYearID uuid.UUID `json:"student_transport_academic_year_id" gorm:"column:student_transport_academic_year_id;type:uuid;not null;index"`
	StudentTransportStudentID      uuid.UUID `json:"student_transport_student_id"       gorm:"column:student_transport_student_id;type:uuid;not null;index"`
	StudentTransportRouteID        uuid.UUID `json:"student_transport_route_id"         gorm:"column:student_transport_route_id;type:uuid;not null;index"`

	StudentTransportStopName   *string         `json:"student_transport_stop_name,omitempty" gorm:"column:student_transport_stop_name;type:varchar(120)"`
	StudentTransportMonthlyFee decimal.Decimal `json:"student_transport_monthly_fee"         gorm:"column:student_transport_monthly_fee;type:numeric(12,2);not null;default:0"`

	// billed month names, in ledger order ("April", "May", ...)
	StudentTransportMonths datatypes.JSONSlice[string] `json:"student_transport_months" gorm:"column:student_transport_months;not null"`

	StudentTransportIsActive bool `json:"student_transport_is_active" gorm:"column:student_transport_is_active;not null;default:true"`

	StudentTransportCreatedAt time.Time      `json:"student_transport_created_at" gorm:"column:student_transport_created_at;not null;autoCreateTime"`
	StudentTransportUpdatedAt time.Time      `json:"student_transport_updated_at" gorm:"column:student_transport_updated_at;not null;autoUpdateTime"`
	StudentTransportDeletedAt gorm.DeletedAt `json:"student_transport_deleted_at,omitempty" gorm:"column:student_transport_deleted_at;index"`

	Fees []StudentTransportFeeModel `json:"-" gorm:"foreignKey:StudentTransportFeeStudentTransportID;references:StudentTransportID"`
}

func (StudentTransportModel) TableName() string { return "student_transports" }

func (m *StudentTransportModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentTransportID == uuid.Nil {
		m.StudentTransportID = uuid.New()
	}
	return nil
}
