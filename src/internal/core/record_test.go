// FILE: evewatch/src/internal/core/record_test.go
package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "SuricataMicros",
			input:    "2024-01-01T10:00:00.123456+0000",
			expected: time.Date(2024, 1, 1, 10, 0, 0, 123456000, time.UTC),
		},
		{
			name:     "SuricataNoFraction",
			input:    "2024-01-01T10:00:00+0200",
			expected: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		},
		{
			name:     "RFC3339",
			input:    "2024-01-02T00:00:00Z",
			expected: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "DateOnly",
			input:    "2024-01-02",
			expected: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "Empty",
			input:   "  ",
			wantErr: true,
		},
		{
			name:    "Garbage",
			input:   "yesterday",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)
		})
	}
}

func TestRecord_MarshalJSON(t *testing.T) {
	t.Run("RawPassthrough", func(t *testing.T) {
		raw := []byte(`{"timestamp":"2024-01-01T00:00:00Z","event_type":"tls","pkt_src":"wire/pipe"}`)
		r := Record{Timestamp: "2024-01-01T00:00:00Z", EventType: "tls", Raw: raw}

		out, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, string(raw), string(out))
	})

	t.Run("StructWhenNoRaw", func(t *testing.T) {
		port := 443
		r := Record{
			Timestamp: "2024-01-01T00:00:00Z",
			EventType: "tls",
			DestPort:  &port,
			TLS:       &TLS{SNI: "example.com", Version: "TLS 1.3"},
		}

		out, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"timestamp":"2024-01-01T00:00:00Z","event_type":"tls","dest_port":443,"tls":{"sni":"example.com","version":"TLS 1.3"}}`,
			string(out))
	})
}

func TestRecord_Accessors(t *testing.T) {
	var r Record
	assert.Equal(t, "", r.TLSVersion())
	assert.False(t, r.IsAlert())

	r.TLS = &TLS{Version: "TLS 1.2"}
	r.Alert = &Alert{Severity: 1}
	assert.Equal(t, "TLS 1.2", r.TLSVersion())
	assert.True(t, r.IsAlert())
}
