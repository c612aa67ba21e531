// FILE: evewatch/src/internal/format/text_test.go
package format

import (
	"strings"
	"testing"

	"evewatch/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextFormatter(t *testing.T) {
	logger := newTestLogger()
	t.Run("InvalidTemplate", func(t *testing.T) {
		options := map[string]any{"template": "{{ .Time | InvalidFunc }}"}
		_, err := NewTextFormatter(options, logger)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid template")
	})
}

func TestTextFormatter_Format(t *testing.T) {
	logger := newTestLogger()
	record := testRecord()

	t.Run("DefaultTemplate", func(t *testing.T) {
		formatter, err := NewTextFormatter(nil, logger)
		require.NoError(t, err)

		output, err := formatter.Format(record)
		require.NoError(t, err)
		assert.Equal(t, "[2024-01-01T10:30:00Z] TLS 192.168.1.10:51000 -> 1.1.1.1:443 TLS 1.3 sni=example.com\n", string(output))
	})

	t.Run("CustomTemplate", func(t *testing.T) {
		options := map[string]any{"template": "{{.EventType}}|{{.Proto}}|{{.Timestamp}}"}
		formatter, err := NewTextFormatter(options, logger)
		require.NoError(t, err)

		output, err := formatter.Format(record)
		require.NoError(t, err)
		assert.Equal(t, "tls|TCP|2024-01-01T10:30:00.000000+0000\n", string(output))
	})

	t.Run("CustomTimestampFormat", func(t *testing.T) {
		formatter, err := NewTextFormatter(map[string]any{"timestamp_format": "2006-01-02"}, logger)
		require.NoError(t, err)

		output, err := formatter.Format(record)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(output), "[2024-01-01]"))
	})

	t.Run("AlertAndMissingEndpoints", func(t *testing.T) {
		alert := core.Record{Time: record.Time, EventType: "alert", Alert: &core.Alert{Severity: 1, Signature: "ET SCAN"}}
		formatter, err := NewTextFormatter(nil, logger)
		require.NoError(t, err)

		output, err := formatter.Format(alert)
		require.NoError(t, err)
		assert.Equal(t, "[2024-01-01T10:30:00Z] ALERT - -> - sev=1 \"ET SCAN\"\n", string(output))
	})

	t.Run("IPv6Endpoint", func(t *testing.T) {
		port := 53
		assert.Equal(t, "[fe80::1]:53", endpoint("fe80::1", &port))
	})
}
