// Package scheduler runs the background jobs started from main.go.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type target struct {
	Table, Col string
	// Children are hard-deleted first (no FK cascade on every driver).
	Children []child
}

type child struct {
	Table, FK, ParentKey string
}

// Children before parents so FK references never block a purge.
var targets = []target{
	{
		Table: "student_transports", Col: "student_transport_deleted_at",
		Children: []child{{Table: "student_transport_fees", FK: "student_transport_fee_student_transport_id", ParentKey: "student_transport_id"}},
	},
	{Table: "fee_schedules", Col: "fee_schedule_deleted_at"},
	{Table: "fee_types", Col: "fee_type_deleted_at"},
	{Table: "bus_routes", Col: "bus_route_deleted_at"},
	{Table: "vehicles", Col: "vehicle_deleted_at"},
	{Table: "drivers", Col: "driver_deleted_at"},
	{Table: "academic_years", Col: "academic_year_deleted_at"},
}

// Reap hard-deletes rows soft-deleted before cutoff. A failing table is
// logged and skipped; the rest still run.
func Reap(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	if db == nil {
		return 0, nil
	}
	var total int64
	var firstErr error
	for _, t := range targets {
		n, err := reapTable(ctx, db, t, cutoff)
		if err != nil {
			log.Printf("[DB-REAPER] %s: %v", t.Table, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if n > 0 {
			log.Printf("[DB-REAPER] %s: hard-deleted %d rows older than %s", t.Table, n, cutoff.Format(time.RFC3339))
		}
		total += n
	}
	if total == 0 && firstErr == nil {
		log.Printf("[DB-REAPER] nothing to delete (cutoff=%s)", cutoff.Format(time.RFC3339))
	}
	return total, firstErr
}

func reapTable(ctx context.Context, db *gorm.DB, t target, cutoff time.Time) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range t.Children {
			sub := `SELECT ` + c.ParentKey + ` FROM ` + t.Table + ` WHERE ` + t.Col + ` IS NOT NULL AND ` + t.Col + ` < ?`
			if err := tx.Exec(`DELETE FROM `+c.Table+` WHERE `+c.FK+` IN (`+sub+`)`, cutoff).Error; err != nil {
				return errors.Wrapf(err, "purge %s", c.Table)
			}
		}
		res := tx.Exec(`DELETE FROM `+t.Table+` WHERE `+t.Col+` IS NOT NULL AND `+t.Col+` < ?`, cutoff)
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete")
		}
		n = res.RowsAffected
		return nil
	})
	return n, err
}

// StartReaper schedules Reap; the caller stops the returned cron on shutdown.
func StartReaper(db *gorm.DB, schedule string, retentionDays int) (*cron.Cron, error) {
	if retentionDays <= 0 {
		return nil, errors.Errorf("retention must be > 0 days, got %d", retentionDays)
	}
	retention := time.Duration(retentionDays) * 24 * time.Hour

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		_, _ = Reap(ctx, db, time.Now().Add(-retention))
	}); err != nil {
		return nil, errors.Wrapf(err, "add reaper schedule %q", schedule)
	}
	log.Printf("[DB-REAPER] started schedule=%q retention=%dd", schedule, retentionDays)
	c.Start()
	return c, nil
}
