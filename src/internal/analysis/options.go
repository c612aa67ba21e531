// FILE: evewatch/src/internal/analysis/options.go
package analysis

import (
	"strings"

	"evewatch/src/internal/config"
	"evewatch/src/internal/core"
)

// Options tunes rankings and threat heuristics
type Options struct {
	TopN int

	// Alerts with 1 <= severity <= HighSeverityThreshold are high severity; 1 is most severe
	HighSeverityThreshold int
	DefaultTLSVersion     string
	UnusualPorts          []int

	// Used by the advisor
	AttackKeywords       []string
	AlertVolumeThreshold int
	TCPVolumeThreshold   int
}

// DefaultOptions returns the built-in analysis settings
func DefaultOptions() Options {
	return Options{
		TopN:                  core.DefaultTopN,
		HighSeverityThreshold: 2,
		DefaultTLSVersion:     "TLS 1.3",
		UnusualPorts:          []int{22, 23, 445, 1433, 3306, 3389, 5432},
		AttackKeywords:        []string{"exploit", "attack", "malware", "scan"},
		AlertVolumeThreshold:  100,
		TCPVolumeThreshold:    1000,
	}
}

// OptionsFromConfig converts the analysis config section
func OptionsFromConfig(cfg config.AnalysisConfig) Options {
	opts := DefaultOptions()
	if cfg.TopN > 0 {
		opts.TopN = int(cfg.TopN)
	}
	if cfg.HighSeverityThreshold > 0 {
		opts.HighSeverityThreshold = int(cfg.HighSeverityThreshold)
	}
	if cfg.DefaultTLSVersion != "" {
		opts.DefaultTLSVersion = cfg.DefaultTLSVersion
	}
	if cfg.UnusualPorts != nil {
		opts.UnusualPorts = make([]int, 0, len(cfg.UnusualPorts))
		for _, p := range cfg.UnusualPorts {
			opts.UnusualPorts = append(opts.UnusualPorts, int(p))
		}
	}
	if cfg.AttackKeywords != nil {
		opts.AttackKeywords = make([]string, 0, len(cfg.AttackKeywords))
		for _, kw := range cfg.AttackKeywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				opts.AttackKeywords = append(opts.AttackKeywords, strings.ToLower(kw))
			}
		}
	}
	if cfg.AlertVolumeThreshold > 0 {
		opts.AlertVolumeThreshold = int(cfg.AlertVolumeThreshold)
	}
	if cfg.TCPVolumeThreshold > 0 {
		opts.TCPVolumeThreshold = int(cfg.TCPVolumeThreshold)
	}
	return opts
}

func (o Options) isHighSeverity(severity int) bool {
	return severity >= 1 && severity <= o.HighSeverityThreshold
}
