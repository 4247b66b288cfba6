// file: internals/helpers/dbtime/tod.go
package dbtime

import (
	"encoding/json"
	"strings"
	"time"
)

// Tod is a wall-clock time of day ("HH:MM") such as a stop pickup time.
type Tod struct{ time.Time }

func ParseTod(s string) (Tod, error) {
	var t Tod
	return t, t.parse(s)
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if len(s) == 5 { // "HH:MM"
		s += ":00"
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return err
	}
	t.Time = tt
	return nil
}

func (t Tod) String() string {
	if t.Time.IsZero() {
		return ""
	}
	return t.Format("15:04")
}

func (t Tod) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parse(s)
}
