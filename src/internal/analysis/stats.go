// FILE: evewatch/src/internal/analysis/stats.go
package analysis

import (
	"math"

	"evewatch/src/internal/core"
)

// Stats is the headline summary shown on dashboards
type Stats struct {
	TotalEvents          int    `json:"totalEvents"`
	UniqueIPs            int    `json:"uniqueIps"`
	TopTLSVersion        string `json:"topTlsVersion"`
	TLSTrafficPercentage int    `json:"tlsTrafficPercentage"`
}

// ComputeStats summarizes records. Empty input yields zero counts and
// the fallback TLS version.
func ComputeStats(records []core.Record, opts Options) Stats {
	ips := make(map[string]struct{})
	versions := NewTally()
	tlsEvents := 0

	for i := range records {
		r := &records[i]
		if r.SrcIP != "" {
			ips[r.SrcIP] = struct{}{}
		}
		if r.DestIP != "" {
			ips[r.DestIP] = struct{}{}
		}
		versions.Add(r.TLSVersion())
		if r.EventType == core.EventTLS {
			tlsEvents++
		}
	}

	stats := Stats{
		TotalEvents:   len(records),
		UniqueIPs:     len(ips),
		TopTLSVersion: opts.DefaultTLSVersion,
	}
	if top := versions.Top(1); len(top) > 0 {
		stats.TopTLSVersion = top[0].Key
	}
	stats.TLSTrafficPercentage = Percentage(tlsEvents, len(records))

	return stats
}

// Percentage returns round(100*part/total), 0 when total is 0.
// Halves round away from zero.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
