package service

import (
	"time"
)

// GenerateScheduleDates places each target month on dueDay. A month greater
// than ref[0] lands in now's year; anything else goes to the following year.
// dueDay past the month's length rolls into the next month (time.Date
// normalisation), e.g. 31 February becomes 3 March.
func GenerateScheduleDates(months []int, dueDay int, ref []int, now time.Time, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	pivot := int(now.Month())
	if len(ref) > 0 {
		pivot = ref[0]
	}

	out := make([]time.Time, 0, len(months))
	for _, m := range months {
		year := now.Year()
		if m <= pivot {
			year++
		}
		out = append(out, time.Date(year, time.Month(m), dueDay, 0, 0, 0, 0, loc))
	}
	return out
}
