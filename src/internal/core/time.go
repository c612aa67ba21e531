// FILE: evewatch/src/internal/core/time.go
package core

import (
	"fmt"
	"strings"
	"time"
)

// Accepted timestamp layouts, tried in order
var timestampLayouts = []string{
	EveTimeLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05",
	DateLayout,
}

// ParseTimestamp parses eve timestamps and the ISO-8601 variants accepted by query parameters.
// Values without a zone are interpreted as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}
