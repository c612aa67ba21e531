// FILE: evewatch/src/internal/config/validation.go
package config

import (
	"fmt"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// ValidateConfig checks the whole configuration and fills derived defaults in place
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if cfg.Logging == nil {
		cfg.Logging = DefaultLogConfig()
	}
	if err := validateLogConfig(cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if cfg.StatusIntervalSec <= 0 {
		cfg.StatusIntervalSec = 30
	}

	if err := validateSource(&cfg.Source); err != nil {
		return err
	}
	if err := validateQuery(&cfg.Query); err != nil {
		return err
	}
	if err := validateAnalysis(&cfg.Analysis); err != nil {
		return err
	}

	if cfg.HTTP.Enabled {
		if err := validateHTTP(&cfg.HTTP); err != nil {
			return err
		}
	}
	if cfg.TCP.Enabled {
		if err := validateTCP(&cfg.TCP); err != nil {
			return err
		}
	}

	if cfg.HTTP.Enabled && cfg.TCP.Enabled && cfg.HTTP.Port == cfg.TCP.Port {
		return fmt.Errorf("http and tcp listeners share port %d", cfg.HTTP.Port)
	}

	return nil
}

func validateSource(s *SourceConfig) error {
	if err := lconfig.NonEmpty(s.Path); err != nil {
		return fmt.Errorf("source: path: %w", err)
	}

	switch strings.ToLower(s.Compression) {
	case "":
		s.Compression = "auto"
	case "auto", "none", "gzip", "zstd":
		s.Compression = strings.ToLower(s.Compression)
	default:
		return fmt.Errorf("source: invalid compression '%s' (must be auto, none, gzip or zstd)", s.Compression)
	}

	if s.MaxLineBytes < 0 {
		return fmt.Errorf("source: max_line_bytes cannot be negative")
	} else if s.MaxLineBytes == 0 {
		s.MaxLineBytes = 1 << 20
	}

	for i := range s.Filters {
		if err := validateFilter(i, &s.Filters[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateQuery(q *QueryConfig) error {
	if q.DefaultPageSize <= 0 {
		q.DefaultPageSize = 20
	}
	if q.MaxPageSize <= 0 {
		q.MaxPageSize = 10000
	}
	if q.DefaultPageSize > q.MaxPageSize {
		return fmt.Errorf("query: default_page_size %d exceeds max_page_size %d",
			q.DefaultPageSize, q.MaxPageSize)
	}
	return nil
}

func validateAnalysis(a *AnalysisConfig) error {
	if a.TopN <= 0 {
		a.TopN = 10
	}
	if a.HighSeverityThreshold < 1 {
		return fmt.Errorf("analysis: high_severity_threshold must be at least 1, got %d", a.HighSeverityThreshold)
	}
	if a.DefaultTLSVersion == "" {
		a.DefaultTLSVersion = "TLS 1.3"
	}
	for _, p := range a.UnusualPorts {
		if err := lconfig.Port(p); err != nil {
			return fmt.Errorf("analysis: unusual_ports: %w", err)
		}
	}
	if a.AlertVolumeThreshold < 0 || a.TCPVolumeThreshold < 0 {
		return fmt.Errorf("analysis: volume thresholds cannot be negative")
	}
	return nil
}

func validateHTTP(h *HTTPConfig) error {
	if err := lconfig.Port(h.Port); err != nil {
		return fmt.Errorf("http: %w", err)
	}

	if h.Host == "" {
		h.Host = "0.0.0.0"
	}
	if h.Host != "0.0.0.0" {
		if err := lconfig.IPAddress(h.Host); err != nil {
			return fmt.Errorf("http: %w", err)
		}
	}

	if h.APIPrefix == "" {
		h.APIPrefix = "/api"
	}
	if !strings.HasPrefix(h.APIPrefix, "/") {
		return fmt.Errorf("http: api_prefix must start with /")
	}
	h.APIPrefix = strings.TrimSuffix(h.APIPrefix, "/")

	if h.StatusPath == "" {
		h.StatusPath = "/status"
	}
	if !strings.HasPrefix(h.StatusPath, "/") {
		return fmt.Errorf("http: status_path must start with /")
	}

	if h.ReadTimeoutMs <= 0 {
		h.ReadTimeoutMs = 5000
	}
	if h.WriteTimeoutMs <= 0 {
		h.WriteTimeoutMs = 10000
	}

	return validateNetAccess("http", h.NetAccess)
}

func validateTCP(t *TCPConfig) error {
	if err := lconfig.Port(t.Port); err != nil {
		return fmt.Errorf("tcp: %w", err)
	}

	if t.Host == "" {
		t.Host = "0.0.0.0"
	}
	if t.Host != "0.0.0.0" {
		if err := lconfig.IPAddress(t.Host); err != nil {
			return fmt.Errorf("tcp: %w", err)
		}
	}

	return validateNetAccess("tcp", t.NetAccess)
}
