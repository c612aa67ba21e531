// FILE: evewatch/src/internal/analysis/threat.go
package analysis

import (
	"slices"

	"evewatch/src/internal/core"
)

// AlertRef identifies one alert record in threat listings
type AlertRef struct {
	Signature string `json:"signature"`
	Severity  int    `json:"severity"`
	Category  string `json:"category,omitempty"`
	SrcIP     string `json:"src_ip,omitempty"`
	DestIP    string `json:"dest_ip,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Attack is a potential attack flagged by the advisor
type Attack struct {
	Type    string `json:"type"`
	Keyword string `json:"keyword"`
	SrcIP   string `json:"src_ip,omitempty"`
	DestIP  string `json:"dest_ip,omitempty"`
}

// ThreatAnalysis is the threat view over a record set
type ThreatAnalysis struct {
	HighSeverityAlerts []AlertRef `json:"high_severity_alerts"`
	SuspiciousIPs      []string   `json:"suspicious_ips"`
	UnusualPorts       []int      `json:"unusual_ports"`
	PotentialAttacks   []Attack   `json:"potential_attacks"`
}

// AnalyzeThreats collects high-severity alerts, IPs seen in alert records and
// destination ports from the unusual port list. Lists keep first-seen order.
// PotentialAttacks is left empty for the advisor to fill.
func AnalyzeThreats(records []core.Record, opts Options) ThreatAnalysis {
	threats := ThreatAnalysis{
		HighSeverityAlerts: []AlertRef{},
		SuspiciousIPs:      []string{},
		UnusualPorts:       []int{},
		PotentialAttacks:   []Attack{},
	}

	seenIPs := make(map[string]struct{})
	seenPorts := make(map[int]struct{})
	addIP := func(ip string) {
		if ip == "" {
			return
		}
		if _, ok := seenIPs[ip]; ok {
			return
		}
		seenIPs[ip] = struct{}{}
		threats.SuspiciousIPs = append(threats.SuspiciousIPs, ip)
	}

	for i := range records {
		r := &records[i]

		if r.Alert != nil {
			if opts.isHighSeverity(r.Alert.Severity) {
				threats.HighSeverityAlerts = append(threats.HighSeverityAlerts, AlertRef{
					Signature: r.Alert.Signature,
					Severity:  r.Alert.Severity,
					Category:  r.Alert.Category,
					SrcIP:     r.SrcIP,
					DestIP:    r.DestIP,
					Timestamp: r.Timestamp,
				})
			}
			addIP(r.SrcIP)
			addIP(r.DestIP)
		}

		if r.DestPort != nil && slices.Contains(opts.UnusualPorts, *r.DestPort) {
			if _, ok := seenPorts[*r.DestPort]; !ok {
				seenPorts[*r.DestPort] = struct{}{}
				threats.UnusualPorts = append(threats.UnusualPorts, *r.DestPort)
			}
		}
	}

	return threats
}
