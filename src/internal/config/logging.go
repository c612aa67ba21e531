// FILE: evewatch/src/internal/config/logging.go
package config

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/log"
)

// Log output modes. Console logs go to stderr so stdout stays free for
// query results.
const (
	LogOutputNone   = "none"
	LogOutputStderr = "stderr"
	LogOutputStdout = "stdout"
	LogOutputFile   = "file"
	LogOutputBoth   = "both" // file and stderr
)

// LogConfig controls EveWatch's own diagnostics, not the eve data it serves
type LogConfig struct {
	Output string         `toml:"output"`
	Level  string         `toml:"level"`
	Format string         `toml:"format"` // txt or json
	File   *LogFileConfig `toml:"file"`
}

// LogFileConfig holds rotation settings for the file and both outputs
type LogFileConfig struct {
	Directory      string  `toml:"directory"`
	Name           string  `toml:"name"`
	MaxSizeMB      int64   `toml:"max_size_mb"`
	MaxTotalSizeMB int64   `toml:"max_total_size_mb"`
	RetentionHours float64 `toml:"retention_hours"`
}

// DefaultLogConfig returns logging defaults
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Output: LogOutputStderr,
		Level:  "info",
		Format: "txt",
		File: &LogFileConfig{
			Directory:      "./log",
			Name:           "evewatch",
			MaxSizeMB:      100,
			MaxTotalSizeMB: 1000,
			RetentionHours: 168,
		},
	}
}

// ParseLogLevel maps a level name onto the logger's numeric level
func ParseLogLevel(level string) (int64, error) {
	switch strings.ToLower(level) {
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// InitArgs renders the config as key=value overrides for log.InitWithDefaults
func (c *LogConfig) InitArgs() ([]string, error) {
	level, err := ParseLogLevel(c.Level)
	if err != nil {
		return nil, err
	}
	args := []string{fmt.Sprintf("level=%d", level)}

	switch c.Output {
	case LogOutputNone:
		args = append(args, "disable_file=true", "enable_stdout=false")
	case LogOutputStderr, LogOutputStdout:
		args = append(args, "disable_file=true", "enable_stdout=true", "stdout_target="+c.Output)
	case LogOutputFile:
		args = append(args, "enable_stdout=false")
		args = append(args, c.fileArgs()...)
	case LogOutputBoth:
		args = append(args, "enable_stdout=true", "stdout_target=stderr")
		args = append(args, c.fileArgs()...)
	default:
		return nil, fmt.Errorf("invalid log output mode: %s", c.Output)
	}

	if c.Format != "" {
		args = append(args, "format="+c.Format)
	}
	return args, nil
}

func (c *LogConfig) fileArgs() []string {
	if c.File == nil {
		return nil
	}
	args := []string{
		"directory=" + c.File.Directory,
		"name=" + c.File.Name,
		fmt.Sprintf("max_size_mb=%d", c.File.MaxSizeMB),
		fmt.Sprintf("max_total_size_mb=%d", c.File.MaxTotalSizeMB),
	}
	if c.File.RetentionHours > 0 {
		args = append(args, fmt.Sprintf("retention_period_hrs=%.1f", c.File.RetentionHours))
	}
	return args
}

func validateLogConfig(cfg *LogConfig) error {
	if _, err := cfg.InitArgs(); err != nil {
		return err
	}
	switch cfg.Format {
	case "", "txt", "json":
		return nil
	default:
		return fmt.Errorf("invalid log format: %s", cfg.Format)
	}
}
