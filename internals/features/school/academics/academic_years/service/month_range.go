package service

import (
	"errors"
	"time"
)

var ErrStartAfterEnd = errors.New("start date must not be after end date")

// ExpandMonths walks month by month from start to end inclusive and returns
// the month numbers (1-12) in loc. A span crossing the same calendar month
// twice yields that month twice.
func ExpandMonths(start, end time.Time, loc *time.Location) ([]int, error) {
	if loc == nil {
		loc = time.Local
	}
	start, end = start.In(loc), end.In(loc)
	if start.After(end) {
		return nil, ErrStartAfterEnd
	}

	months := make([]int, 0, 12)
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc)
	for !cur.After(end) {
		months = append(months, int(cur.Month()))
		cur = cur.AddDate(0, 1, 0)
	}
	return months, nil
}
