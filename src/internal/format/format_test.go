// FILE: evewatch/src/internal/format/format_test.go
package format

import (
	"testing"
	"time"

	"evewatch/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func testRecord() core.Record {
	src, dest := 51000, 443
	return core.Record{
		Timestamp: "2024-01-01T10:30:00.000000+0000",
		Time:      time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
		EventType: "tls",
		SrcIP:     "192.168.1.10",
		SrcPort:   &src,
		DestIP:    "1.1.1.1",
		DestPort:  &dest,
		Proto:     "TCP",
		TLS:       &core.TLS{Version: "TLS 1.3", SNI: "example.com"},
	}
}

func TestNewFormatter(t *testing.T) {
	logger := newTestLogger()

	testCases := []struct {
		name        string
		formatName  string
		expected    string
		expectError bool
	}{
		{name: "JSONFormatter", formatName: "json", expected: "json"},
		{name: "TextFormatter", formatName: "txt", expected: "txt"},
		{name: "TextAlias", formatName: "text", expected: "txt"},
		{name: "RawFormatter", formatName: "raw", expected: "raw"},
		{name: "DefaultToRaw", formatName: "", expected: "raw"},
		{name: "UnknownFormatter", formatName: "xml", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			formatter, err := NewFormatter(tc.formatName, nil, logger)
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, formatter)
			} else {
				require.NoError(t, err)
				require.NotNil(t, formatter)
				assert.Equal(t, tc.expected, formatter.Name())
			}
		})
	}
}
