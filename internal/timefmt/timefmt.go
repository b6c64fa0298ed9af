// Package timefmt converts between the user's wall-clock inputs, the
// absolute instants the API exchanges, and the fixed display timezone.
package timefmt

import (
	"fmt"
	"time"

	"github.com/hoopmatch/internal/domain"
)

const (
	dateLayout    = "2006-01-02"
	clockLayout   = "15:04"
	displayLayout = "2006-01-02 15:04"
)

// ToInstant interprets a date ("2006-01-02") and clock ("15:04") pair in
// the given wall-clock timezone and returns the absolute UTC instant to
// send to the server.
func ToInstant(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+clockLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", domain.ErrInvalidSchedule, date, clock)
	}
	return t.UTC(), nil
}

// Display renders a server instant in the fixed display timezone,
// regardless of the viewer's local zone.
func Display(t domain.Instant, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(displayLayout)
}

// DisplayZone resolves the configured display timezone, falling back to UTC
// if the zone database does not know it.
func DisplayZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
