package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	yearModel "schooladmin_backend/internals/features/school/academics/academic_years/model"
)

// SeedActiveYear inserts an active April-March academic year for schoolID.
func SeedActiveYear(t *testing.T, db *gorm.DB, schoolID uuid.UUID, startYear int) yearModel.AcademicYearModel {
	t.Helper()
	y := yearModel.AcademicYearModel{
		AcademicYearSchoolID:  schoolID,
		AcademicYearName:      "active year",
		AcademicYearStartDate: time.Date(startYear, time.April, 1, 0, 0, 0, 0, time.UTC),
		AcademicYearEndDate:   time.Date(startYear+1, time.March, 31, 0, 0, 0, 0, time.UTC),
		AcademicYearMonths:    []int{4, 5, 6, 7, 8, 9, 10, 11, 12, 1, 2, 3},
		AcademicYearIsActive:  true,
	}
	require.NoError(t, db.Create(&y).Error)
	return y
}
