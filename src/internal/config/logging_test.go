// FILE: evewatch/src/internal/config/logging_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogConfig_InitArgs(t *testing.T) {
	file := &LogFileConfig{Directory: "/var/log/evewatch", Name: "ew", MaxSizeMB: 10, MaxTotalSizeMB: 50, RetentionHours: 24}

	testCases := []struct {
		name    string
		cfg     LogConfig
		want    []string
		wantErr bool
	}{
		{
			name: "Stderr",
			cfg:  LogConfig{Output: LogOutputStderr, Level: "warn"},
			want: []string{"level=4", "disable_file=true", "enable_stdout=true", "stdout_target=stderr"},
		},
		{
			name: "StdoutJSON",
			cfg:  LogConfig{Output: LogOutputStdout, Level: "debug", Format: "json"},
			want: []string{"level=-4", "disable_file=true", "enable_stdout=true", "stdout_target=stdout", "format=json"},
		},
		{
			name: "None",
			cfg:  LogConfig{Output: LogOutputNone, Level: "error"},
			want: []string{"level=8", "disable_file=true", "enable_stdout=false"},
		},
		{
			name: "Both",
			cfg:  LogConfig{Output: LogOutputBoth, Level: "info", File: file},
			want: []string{"level=0", "enable_stdout=true", "stdout_target=stderr",
				"directory=/var/log/evewatch", "name=ew", "max_size_mb=10", "max_total_size_mb=50", "retention_period_hrs=24.0"},
		},
		{
			name: "FileWithoutSettings",
			cfg:  LogConfig{Output: LogOutputFile, Level: "info"},
			want: []string{"level=0", "enable_stdout=false"},
		},
		{name: "BadLevel", cfg: LogConfig{Output: LogOutputStderr, Level: "loud"}, wantErr: true},
		{name: "UnknownOutput", cfg: LogConfig{Output: "split", Level: "info"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args, err := tc.cfg.InitArgs()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, args)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warn", "warning", "error"} {
		_, err := ParseLogLevel(level)
		assert.NoError(t, err, level)
	}
	_, err := ParseLogLevel("loud")
	assert.Error(t, err)
}

func TestValidateLogConfig_Format(t *testing.T) {
	cfg := DefaultLogConfig()
	require.NoError(t, validateLogConfig(cfg))

	cfg.Format = "yaml"
	assert.Error(t, validateLogConfig(cfg))
}
