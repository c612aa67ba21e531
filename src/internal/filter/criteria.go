// FILE: evewatch/src/internal/filter/criteria.go
package filter

import (
	"fmt"
	"strings"
	"time"

	"evewatch/src/internal/core"
)

// Query parameter names shared by every query surface
const (
	ParamEventType  = "eventType"
	ParamTLSVersion = "tlsVersion"
	ParamSourceIP   = "sourceIp"
	ParamDestIP     = "destIp"
	ParamDateFrom   = "dateFrom"
	ParamDateTo     = "dateTo"
)

// Criteria is a set of optional record predicates combined with AND.
// Zero-valued fields impose no constraint.
type Criteria struct {
	EventType  string
	TLSVersion string
	SourceIP   string
	DestIP     string
	DateFrom   time.Time
	DateTo     time.Time
}

// IsEmpty reports whether no predicate is active
func (c Criteria) IsEmpty() bool {
	return c.EventType == "" && c.TLSVersion == "" &&
		c.SourceIP == "" && c.DestIP == "" &&
		c.DateFrom.IsZero() && c.DateTo.IsZero()
}

// Match evaluates all active predicates against one record
func (c Criteria) Match(r *core.Record) bool {
	if c.EventType != "" && r.EventType != c.EventType {
		return false
	}
	if c.TLSVersion != "" && (r.TLS == nil || r.TLS.Version != c.TLSVersion) {
		return false
	}
	// Absent IPs never satisfy an active substring predicate
	if c.SourceIP != "" && (r.SrcIP == "" || !strings.Contains(r.SrcIP, c.SourceIP)) {
		return false
	}
	if c.DestIP != "" && (r.DestIP == "" || !strings.Contains(r.DestIP, c.DestIP)) {
		return false
	}
	if !c.DateFrom.IsZero() && r.Time.Before(c.DateFrom) {
		return false
	}
	if !c.DateTo.IsZero() && r.Time.After(c.DateTo) {
		return false
	}
	return true
}

// Apply returns the records satisfying the criteria in their input order.
// The input slice is never modified; an empty criteria set returns it unchanged.
func Apply(records []core.Record, c Criteria) []core.Record {
	if c.IsEmpty() {
		return records
	}

	out := make([]core.Record, 0)
	for i := range records {
		if c.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// ParseCriteria builds criteria from named string parameters.
// Empty values and the "all" sentinel mean no constraint.
func ParseCriteria(get func(key string) string) (Criteria, error) {
	var c Criteria

	c.EventType = normalize(get(ParamEventType))
	c.TLSVersion = normalize(get(ParamTLSVersion))
	c.SourceIP = normalize(get(ParamSourceIP))
	c.DestIP = normalize(get(ParamDestIP))

	if v := normalize(get(ParamDateFrom)); v != "" {
		t, err := core.ParseTimestamp(v)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid %s: %w", ParamDateFrom, err)
		}
		c.DateFrom = t
	}
	if v := normalize(get(ParamDateTo)); v != "" {
		t, err := core.ParseTimestamp(v)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid %s: %w", ParamDateTo, err)
		}
		c.DateTo = t
	}

	return c, nil
}

// FromMap adapts a plain map to the ParseCriteria getter
func FromMap(m map[string]string) func(string) string {
	return func(key string) string {
		return m[key]
	}
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == core.FilterAll {
		return ""
	}
	return v
}
