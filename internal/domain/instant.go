package domain

import (
	"fmt"
	"strings"
	"time"
)

// Instant is an absolute point in time received from the server. It accepts
// RFC 3339, and also the zone-less "2006-01-02T15:04:05" form some server
// deployments emit, which is taken as UTC.
type Instant struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (i *Instant) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		i.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Zone-less timestamps are UTC by contract
		t, err = time.Parse("2006-01-02T15:04:05.999999999", s)
		if err != nil {
			return fmt.Errorf("parsing instant %q: %w", s, err)
		}
	}

	i.Time = t.UTC()
	return nil
}
