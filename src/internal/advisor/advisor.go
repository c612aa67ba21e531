// FILE: evewatch/src/internal/advisor/advisor.go
package advisor

import (
	"fmt"
	"strconv"
	"strings"

	"evewatch/src/internal/analysis"
	"evewatch/src/internal/core"
)

// Rule produces at most one suggestion from a summary
type Rule struct {
	Name  string
	Check func(s *analysis.Summary, opts analysis.Options) (string, bool)
}

// DefaultRules returns the built-in suggestion rules in reporting order
func DefaultRules() []Rule {
	return []Rule{
		{Name: "alert_volume", Check: alertVolume},
		{Name: "tcp_volume", Check: tcpVolume},
		{Name: "suspicious_ports", Check: suspiciousPorts},
		{Name: "high_severity", Check: highSeverity},
		{Name: "suspicious_ips", Check: suspiciousIPs},
		{Name: "potential_attacks", Check: potentialAttacks},
	}
}

// Advisor derives potential attacks and security suggestions from a summary
type Advisor struct {
	opts  analysis.Options
	rules []Rule
}

// New creates an advisor with the default rule set
func New(opts analysis.Options) *Advisor {
	return &Advisor{opts: opts, rules: DefaultRules()}
}

// Advise fills the summary's potential attacks and security suggestions.
// records must be the set the summary was computed from.
func (a *Advisor) Advise(s *analysis.Summary, records []core.Record) {
	s.ThreatAnalysis.PotentialAttacks = FindAttacks(records, a.opts.AttackKeywords)

	suggestions := make([]string, 0, len(a.rules))
	for _, rule := range a.rules {
		if msg, ok := rule.Check(s, a.opts); ok {
			suggestions = append(suggestions, msg)
		}
	}
	s.SecuritySuggestions = suggestions
}

// FindAttacks returns alert records whose signature contains one of the
// keywords, compared case-insensitively. The first matching keyword is reported.
func FindAttacks(records []core.Record, keywords []string) []analysis.Attack {
	attacks := make([]analysis.Attack, 0)
	if len(keywords) == 0 {
		return attacks
	}

	for i := range records {
		r := &records[i]
		if r.Alert == nil {
			continue
		}
		sig := strings.ToLower(r.Alert.Signature)
		for _, kw := range keywords {
			if kw != "" && strings.Contains(sig, strings.ToLower(kw)) {
				attacks = append(attacks, analysis.Attack{
					Type:    r.Alert.Signature,
					Keyword: kw,
					SrcIP:   r.SrcIP,
					DestIP:  r.DestIP,
				})
				break
			}
		}
	}
	return attacks
}

func alertVolume(s *analysis.Summary, opts analysis.Options) (string, bool) {
	if s.AlertCount <= opts.AlertVolumeThreshold {
		return "", false
	}
	return fmt.Sprintf("High number of alerts detected (%d). Consider reviewing alert thresholds and rules.", s.AlertCount), true
}

func tcpVolume(s *analysis.Summary, opts analysis.Options) (string, bool) {
	tcp := 0
	for _, item := range s.Protocols {
		if strings.EqualFold(item.Key, "TCP") {
			tcp += item.Count
		}
	}
	if tcp <= opts.TCPVolumeThreshold {
		return "", false
	}
	return fmt.Sprintf("High volume of TCP traffic detected (%d events). Consider implementing rate limiting.", tcp), true
}

func suspiciousPorts(s *analysis.Summary, _ analysis.Options) (string, bool) {
	if len(s.ThreatAnalysis.UnusualPorts) == 0 {
		return "", false
	}
	ports := make([]string, 0, len(s.ThreatAnalysis.UnusualPorts))
	for _, p := range s.ThreatAnalysis.UnusualPorts {
		ports = append(ports, strconv.Itoa(p))
	}
	return "Suspicious port activity detected on ports: " + strings.Join(ports, ", "), true
}

func highSeverity(s *analysis.Summary, _ analysis.Options) (string, bool) {
	n := len(s.ThreatAnalysis.HighSeverityAlerts)
	if n == 0 {
		return "", false
	}
	return fmt.Sprintf("%d high severity alerts detected. Immediate investigation recommended.", n), true
}

func suspiciousIPs(s *analysis.Summary, _ analysis.Options) (string, bool) {
	n := len(s.ThreatAnalysis.SuspiciousIPs)
	if n == 0 {
		return "", false
	}
	return fmt.Sprintf("Suspicious activity detected from %d IP addresses. Consider blocking these IPs.", n), true
}

func potentialAttacks(s *analysis.Summary, _ analysis.Options) (string, bool) {
	n := len(s.ThreatAnalysis.PotentialAttacks)
	if n == 0 {
		return "", false
	}
	return fmt.Sprintf("Potential attacks detected: %d incidents. Review and update security rules.", n), true
}
