// file: internals/features/school/academics/academic_years/model/academic_year_model.go
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AcademicYearModel struct {
	AcademicYearID       uuid.UUID `gorm:"type:uuid;primaryKey;column:academic_year_id" json:"academic_year_id"`
	AcademicYearSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:academic_year_school_id" json:"academic_year_school_id"`

	// Example: "2025/2026"
	AcademicYearName      string    `gorm:"type:text;not null;column:academic_year_name" json:"academic_year_name"`
	AcademicYearStartDate time.Time `gorm:"not null;column:academic_year_start_date" json:"academic_year_start_date"`
	AcademicYearEndDate   time.Time `gorm:"not null;column:academic_year_end_date" json:"academic_year_end_date"`

	// Derived from start/end; month numbers 1-12, duplicates kept across year boundaries.
	AcademicYearMonths datatypes.JSONSlice[int] `gorm:"not null;column:academic_year_months" json:"academic_year_months"`

	AcademicYearIsActive bool `gorm:"not null;default:false;column:academic_year_is_active" json:"academic_year_is_active"`

	AcademicYearCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:academic_year_created_at" json:"academic_year_created_at"`
	AcademicYearUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:academic_year_updated_at" json:"academic_year_updated_at"`
	AcademicYearDeletedAt gorm.DeletedAt `gorm:"column:academic_year_deleted_at;index" json:"academic_year_deleted_at,omitempty"`
}

func (AcademicYearModel) TableName() string { return "academic_years" }

func (m *AcademicYearModel) BeforeCreate(tx *gorm.DB) error {
	if m.AcademicYearID == uuid.Nil {
		m.AcademicYearID = uuid.New()
	}
	return nil
}

// Mirror CHECK: end >= start
func (m *AcademicYearModel) BeforeSave(tx *gorm.DB) error {
	if m.AcademicYearEndDate.Before(m.AcademicYearStartDate) {
		return errors.New("academic_year_end_date must be >= academic_year_start_date")
	}
	m.AcademicYearName = strings.TrimSpace(m.AcademicYearName)
	return nil
}
