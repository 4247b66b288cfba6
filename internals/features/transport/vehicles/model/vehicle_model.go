// file: internals/features/transport/vehicles/model/vehicle_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleType string

const (
	VehicleTypeBus VehicleType = "bus"
	VehicleTypeVan VehicleType = "van"
	VehicleTypeCar VehicleType = "car"
)

type VehicleModel struct {
	VehicleID       uuid.UUID `json:"vehicle_id"        gorm:"column:vehicle_id;type:uuid;primaryKey"`
	VehicleSchoolID uuid.UUID `json:"vehicle_school_id" gorm:"column:vehicle_school_id;type:uuid;not null;index"`

	// plate / fleet number, upper-cased; unique per school
	VehicleNumber   string      `json:"vehicle_number"          gorm:"column:vehicle_number;type:varchar(30);not null"`
	VehicleModel    *string     `json:"vehicle_model,omitempty" gorm:"column:vehicle_model;type:varchar(120)"`
	VehicleType     VehicleType `json:"vehicle_type"            gorm:"column:vehicle_type;type:varchar(10);not null;default:'bus'"`
	VehicleCapacity int         `json:"vehicle_capacity"        gorm:"column:vehicle_capacity;not null"`

	VehicleInsuranceExpiry *time.Time `json:"vehicle_insurance_expiry,omitempty" gorm:"column:vehicle_insurance_expiry"`
	VehicleFitnessExpiry   *time.Time `json:"vehicle_fitness_expiry,omitempty"   gorm:"column:vehicle_fitness_expiry"`

	VehicleDriverID *uuid.UUID `json:"vehicle_driver_id,omitempty" gorm:"column:vehicle_driver_id;type:uuid"`
	VehicleIsActive bool       `json:"vehicle_is_active"           gorm:"column:vehicle_is_active;not null;default:true"`

	VehicleCreatedAt time.Time      `json:"vehicle_created_at" gorm:"column:vehicle_created_at;not null;autoCreateTime"`
	VehicleUpdatedAt time.Time      `json:"vehicle_updated_at" gorm:"column:vehicle_updated_at;not null;autoUpdateTime"`
	VehicleDeletedAt gorm.DeletedAt `json:"vehicle_deleted_at,omitempty" gorm:"column:vehicle_deleted_at;index"`
}

func (VehicleModel) TableName() string { return "vehicles" }

func (m *VehicleModel) BeforeCreate(tx *gorm.DB) error {
	if m.VehicleID == uuid.Nil {
		m.VehicleID = uuid.New()
	}
	return nil
}
