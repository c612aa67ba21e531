// FILE: evewatch/src/internal/config/config.go
package config

// Config is the root configuration, scanned from defaults, file, env and CLI
type Config struct {
	// Top-level flags
	ConfigFile            string `toml:"config_file"`
	Quiet                 bool   `toml:"quiet"`
	DisableStatusReporter bool   `toml:"disable_status_reporter"`
	StatusIntervalSec     int64  `toml:"status_interval_sec"`

	Source   SourceConfig   `toml:"source"`
	Query    QueryConfig    `toml:"query"`
	Analysis AnalysisConfig `toml:"analysis"`
	HTTP     HTTPConfig     `toml:"http"`
	TCP      TCPConfig      `toml:"tcp"`
	Logging  *LogConfig     `toml:"logging"`
}

// SourceConfig describes the eve file backing the dataset
type SourceConfig struct {
	Path string `toml:"path"`

	// "auto", "none", "gzip" or "zstd"
	Compression  string `toml:"compression"`
	MaxLineBytes int64  `toml:"max_line_bytes"`

	// Regex filters applied to raw lines before decoding
	Filters []FilterConfig `toml:"filters"`
}

type QueryConfig struct {
	DefaultPageSize int64 `toml:"default_page_size"`
	MaxPageSize     int64 `toml:"max_page_size"`
}

// AnalysisConfig tunes the summary and threat heuristics
type AnalysisConfig struct {
	TopN int64 `toml:"top_n"`

	// Alerts with 1 <= severity <= threshold are high severity (1 is most severe)
	HighSeverityThreshold int64    `toml:"high_severity_threshold"`
	DefaultTLSVersion     string   `toml:"default_tls_version"`
	UnusualPorts          []int64  `toml:"unusual_ports"`
	AttackKeywords        []string `toml:"attack_keywords"`
	AlertVolumeThreshold  int64    `toml:"alert_volume_threshold"`
	TCPVolumeThreshold    int64    `toml:"tcp_volume_threshold"`
}

type HTTPConfig struct {
	Enabled        bool             `toml:"enabled"`
	Host           string           `toml:"host"`
	Port           int64            `toml:"port"`
	APIPrefix      string           `toml:"api_prefix"`
	StatusPath     string           `toml:"status_path"`
	ReadTimeoutMs  int64            `toml:"read_timeout_ms"`
	WriteTimeoutMs int64            `toml:"write_timeout_ms"`
	CORSOrigins    []string         `toml:"cors_origins"`
	NetAccess      *NetAccessConfig `toml:"net_access"`
}

type TCPConfig struct {
	Enabled   bool             `toml:"enabled"`
	Host      string           `toml:"host"`
	Port      int64            `toml:"port"`
	NetAccess *NetAccessConfig `toml:"net_access"`
}
