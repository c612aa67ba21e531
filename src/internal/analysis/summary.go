// FILE: evewatch/src/internal/analysis/summary.go
package analysis

import (
	"fmt"

	"evewatch/src/internal/core"
)

// TimeRange holds the original timestamps of the oldest and newest records
type TimeRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// Summary is the full analysis bundle
type Summary struct {
	TotalLogs           int            `json:"total_logs"`
	TimeRange           TimeRange      `json:"time_range"`
	TopSourceIPs        Ranking        `json:"top_source_ips"`
	TopDestinationIPs   Ranking        `json:"top_destination_ips"`
	AlertTypes          Ranking        `json:"alert_types"`
	AlertCategories     Ranking        `json:"alert_categories"`
	EventTypes          Ranking        `json:"event_types"`
	Protocols           Ranking        `json:"protocols"`
	Ports               Ranking        `json:"ports"`
	ThreatAnalysis      ThreatAnalysis `json:"threat_analysis"`
	SecuritySuggestions []string       `json:"security_suggestions"`

	// Totals the advisor works from
	AlertCount int `json:"-"`
}

// Summarize tallies records and builds the threat view. Security
// suggestions and potential attacks are left for the advisor.
func Summarize(records []core.Record, opts Options) Summary {
	srcIPs := NewTally()
	destIPs := NewTally()
	alertTypes := NewTally()
	alertCategories := NewTally()
	eventTypes := NewTally()
	protocols := NewTally()
	ports := NewTally()

	var oldest, newest *core.Record
	alertCount := 0

	for i := range records {
		r := &records[i]

		if oldest == nil || r.Time.Before(oldest.Time) {
			oldest = r
		}
		if newest == nil || r.Time.After(newest.Time) {
			newest = r
		}

		srcIPs.Add(r.SrcIP)
		destIPs.Add(r.DestIP)
		eventTypes.Add(r.EventType)
		protocols.Add(r.Proto)

		if r.Alert != nil {
			alertCount++
			alertTypes.Add(r.Alert.Signature)
			alertCategories.Add(r.Alert.Category)
		}

		if r.SrcPort != nil {
			ports.Add(fmt.Sprintf("Source Port %d", *r.SrcPort))
		}
		if r.DestPort != nil {
			ports.Add(fmt.Sprintf("Destination Port %d", *r.DestPort))
		}
	}

	summary := Summary{
		TotalLogs:           len(records),
		TopSourceIPs:        srcIPs.Top(opts.TopN),
		TopDestinationIPs:   destIPs.Top(opts.TopN),
		AlertTypes:          alertTypes.Top(opts.TopN),
		AlertCategories:     alertCategories.Top(opts.TopN),
		EventTypes:          eventTypes.Top(0),
		Protocols:           protocols.All(),
		Ports:               ports.Top(opts.TopN),
		ThreatAnalysis:      AnalyzeThreats(records, opts),
		SecuritySuggestions: []string{},
		AlertCount:          alertCount,
	}

	if oldest != nil {
		start, end := oldest.Timestamp, newest.Timestamp
		summary.TimeRange = TimeRange{Start: &start, End: &end}
	}

	return summary
}
