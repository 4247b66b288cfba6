package service

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"schooladmin_backend/internals/features/school/academics/academic_years/model"
)

// ActiveYearCache keeps each school's active academic year in process.
// Entries are dropped whenever a year of that school is activated,
// updated, deleted or restored.
type ActiveYearCache struct {
	c *cache.Cache
}

func NewActiveYearCache(ttl time.Duration) *ActiveYearCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ActiveYearCache{c: cache.New(ttl, 2*ttl)}
}

// ActiveYears is shared by the controller and the resolver middleware.
// main replaces it once config is loaded.
var ActiveYears = NewActiveYearCache(5 * time.Minute)

func (a *ActiveYearCache) Invalidate(schoolID uuid.UUID) {
	a.c.Delete(schoolID.String())
}

func (a *ActiveYearCache) Flush() { a.c.Flush() }

// Resolve returns the active year of a school. gorm.ErrRecordNotFound when none.
func (a *ActiveYearCache) Resolve(db *gorm.DB, schoolID uuid.UUID) (model.AcademicYearModel, error) {
	key := schoolID.String()
	if v, ok := a.c.Get(key); ok {
		return v.(model.AcademicYearModel), nil
	}

	var year model.AcademicYearModel
	err := db.
		Where("academic_year_school_id = ? AND academic_year_is_active = ?", schoolID, true).
		Order("academic_year_updated_at DESC").
		First(&year).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return year, err
		}
		return year, errors.Wrap(err, "load active academic year")
	}
	a.c.SetDefault(key, year)
	return year, nil
}

// Activate marks yearID active and then sweeps every other year of the
// school to inactive. Run inside a transaction.
func Activate(tx *gorm.DB, schoolID, yearID uuid.UUID) error {
	res := tx.Model(&model.AcademicYearModel{}).
		Where("academic_year_school_id = ? AND academic_year_id = ?", schoolID, yearID).
		Update("academic_year_is_active", true)
	if res.Error != nil {
		return errors.Wrap(res.Error, "activate academic year")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := tx.Model(&model.AcademicYearModel{}).
		Where("academic_year_school_id = ? AND academic_year_id <> ? AND academic_year_is_active = ?", schoolID, yearID, true).
		Update("academic_year_is_active", false).Error; err != nil {
		return errors.Wrap(err, "deactivate other academic years")
	}
	return nil
}

// Locals key set by middleware.ResolveActiveAcademicYear.
const LocActiveAcademicYear = "active_academic_year"

func ActiveYearFrom(c *fiber.Ctx) (model.AcademicYearModel, bool) {
	y, ok := c.Locals(LocActiveAcademicYear).(model.AcademicYearModel)
	return y, ok
}
