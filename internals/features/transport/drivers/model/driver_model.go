// file: internals/features/transport/drivers/model/driver_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DriverModel struct {
	DriverID       uuid.UUID `json:"driver_id"        gorm:"column:driver_id;type:uuid;primaryKey"`
	DriverSchoolID uuid.UUID `json:"driver_school_id" gorm:"column:driver_school_id;type:uuid;not null;index"`

	DriverName  string `json:"driver_name"  gorm:"column:driver_name;type:varchar(120);not null"`
	DriverPhone string `json:"driver_phone" gorm:"column:driver_phone;type:varchar(30);not null"`

	// unique per school (alive rows)
	DriverLicenseNumber string     `json:"driver_license_number"           gorm:"column:driver_license_number;type:varchar(60);not null"`
	DriverLicenseExpiry *time.Time `json:"driver_license_expiry,omitempty" gorm:"column:driver_license_expiry"`
	DriverAddress       *string    `json:"driver_address,omitempty"        gorm:"column:driver_address;type:text"`

	// OSS URLs
	DriverPhotoURL   *string `json:"driver_photo_url,omitempty"   gorm:"column:driver_photo_url;type:text"`
	DriverLicenseURL *string `json:"driver_license_url,omitempty" gorm:"column:driver_license_url;type:text"`

	DriverIsActive bool `json:"driver_is_active" gorm:"column:driver_is_active;not null;default:true"`

	DriverCreatedAt time.Time      `json:"driver_created_at" gorm:"column:driver_created_at;not null;autoCreateTime"`
	DriverUpdatedAt time.Time      `json:"driver_updated_at" gorm:"column:driver_updated_at;not null;autoUpdateTime"`
	DriverDeletedAt gorm.DeletedAt `json:"driver_deleted_at,omitempty" gorm:"column:driver_deleted_at;index"`
}

func (DriverModel) TableName() string { return "drivers" }

func (m *DriverModel) BeforeCreate(tx *gorm.DB) error {
	if m.DriverID == uuid.Nil {
		m.DriverID = uuid.New()
	}
	return nil
}
