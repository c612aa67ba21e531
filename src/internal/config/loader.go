// FILE: evewatch/src/internal/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

const envPrefix = "EVEWATCH_"

func defaults() *Config {
	return &Config{
		Quiet:                 false,
		DisableStatusReporter: false,
		StatusIntervalSec:     30,
		Source: SourceConfig{
			Path:         "data/eve.json",
			Compression:  "auto",
			MaxLineBytes: 1 << 20,
		},
		Query: QueryConfig{
			DefaultPageSize: 20,
			MaxPageSize:     10000,
		},
		Analysis: AnalysisConfig{
			TopN:                  10,
			HighSeverityThreshold: 2,
			DefaultTLSVersion:     "TLS 1.3",
			UnusualPorts:          []int64{22, 23, 445, 1433, 3306, 3389, 5432},
			AttackKeywords:        []string{"exploit", "attack", "malware", "scan"},
			AlertVolumeThreshold:  100,
			TCPVolumeThreshold:    1000,
		},
		HTTP: HTTPConfig{
			Enabled:        true,
			Host:           "0.0.0.0",
			Port:           8000,
			APIPrefix:      "/api",
			StatusPath:     "/status",
			ReadTimeoutMs:  5000,
			WriteTimeoutMs: 10000,
			CORSOrigins:    []string{"*"},
		},
		TCP: TCPConfig{
			Enabled: false,
			Host:    "0.0.0.0",
			Port:    9000,
		},
		Logging: DefaultLogConfig(),
	}
}

// Load builds the configuration from defaults, config file, environment and CLI arguments.
// Precedence: CLI > env > file > defaults. A missing config file is not an error.
func Load(args []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix(envPrefix).
		WithFile(configPath).
		WithArgs(args).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}
	finalConfig.ConfigFile = configPath

	return finalConfig, ValidateConfig(finalConfig)
}

// Default returns a validated copy of the built-in defaults
func Default() *Config {
	cfg := defaults()
	_ = ValidateConfig(cfg)
	return cfg
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = envPrefix + env
	return env
}

// GetConfigPath resolves the config file location from the environment
func GetConfigPath() string {
	if configFile := os.Getenv(envPrefix + "CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv(envPrefix + "CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv(envPrefix + "CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "evewatch.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "evewatch.toml")
	}

	return "evewatch.toml"
}
