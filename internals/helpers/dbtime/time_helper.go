// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/configs"
)

// DMYLayout is the wire format for calendar dates (DD/MM/YYYY).
const DMYLayout = "02/01/2006"

const LocSchoolLoc = "school_loc"

// Now is swapped in tests.
var Now = time.Now

// GetSchoolLocation: locals "school_loc" (diisi middleware) → APP_TIMEZONE → time.Local.
func GetSchoolLocation(c *fiber.Ctx) *time.Location {
	if c != nil {
		if loc, ok := c.Locals(LocSchoolLoc).(*time.Location); ok && loc != nil {
			return loc
		}
	}
	return configs.SchoolLocation()
}

func NowIn(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return Now().In(loc)
}

// ParseDMY parses "DD/MM/YYYY" as midnight in loc.
func ParseDMY(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DMYLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected DD/MM/YYYY", s)
	}
	return t, nil
}

// FormatDMY renders t as a calendar date in loc. Timestamps come back from
// Postgres in the session zone, so the school zone must be applied here.
func FormatDMY(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DMYLayout)
}

// ParseDMYPtr: "" → nil.
func ParseDMYPtr(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDMY(*s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MonthFromName accepts full English month names, case-insensitive.
func MonthFromName(name string) (time.Month, bool) {
	name = strings.TrimSpace(name)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, true
		}
	}
	return 0, false
}
