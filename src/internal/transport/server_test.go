// FILE: evewatch/src/internal/transport/server_test.go
package transport

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"evewatch/src/internal/analysis"
	"evewatch/src/internal/config"
	"evewatch/src/internal/engine"
	"evewatch/src/internal/limit"
	"evewatch/src/internal/source"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

const testEve = `{"timestamp":"2024-01-01T00:00:00Z","event_type":"tls","src_ip":"10.0.0.1","tls":{"version":"TLS 1.2"}}
{"timestamp":"2024-01-02T00:00:00Z","event_type":"alert","src_ip":"10.0.0.2","alert":{"severity":3,"signature":"ET POLICY curl"}}
`

func newTestServer(t *testing.T, netAccess *config.NetAccessConfig) *QueryServer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eve.json")
	require.NoError(t, os.WriteFile(path, []byte(testEve), 0o644))

	loader, err := source.NewLoader(config.SourceConfig{Path: path}, newTestLogger())
	require.NoError(t, err)
	eng := engine.New(loader, config.QueryConfig{}, analysis.DefaultOptions(), newTestLogger())

	s, err := NewQueryServer(&config.TCPConfig{Host: "127.0.0.1", Port: 9000, NetAccess: netAccess}, eng, newTestLogger())
	require.NoError(t, err)
	return s
}

type rawResponse struct {
	ID     string          `json:"id"`
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func TestQueryServer_HandleLine(t *testing.T) {
	s := newTestServer(t, nil)

	testCases := []struct {
		name    string
		line    string
		ok      bool
		id      string
		errPart string
		keys    []string
	}{
		{name: "Stats", line: `{"id":"r1","op":"stats"}`, ok: true, id: "r1", keys: []string{"totalEvents", "tlsTrafficPercentage"}},
		{name: "QueryNumericParams", line: `{"op":"query","params":{"page":2,"pageSize":1}}`, ok: true, keys: []string{"data", "totalPages"}},
		{name: "Summary", line: `{"op":"summary"}`, ok: true, keys: []string{"total_logs", "threat_analysis"}},
		{name: "Traffic", line: `{"op":"traffic"}`, ok: true, keys: []string{"eventTypes", "topSni"}},
		{name: "UnknownOp", line: `{"id":"x","op":"drop"}`, id: "x", errPart: "unknown op"},
		{name: "BadJSON", line: `{op:`, errPart: "invalid request"},
		{name: "BadDate", line: `{"op":"query","params":{"dateFrom":"soon"}}`, errPart: "invalid parameter"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := s.handleLine([]byte(tc.line))
			require.True(t, strings.HasSuffix(string(out), "\n"))

			var resp rawResponse
			require.NoError(t, json.Unmarshal(out, &resp))
			assert.Equal(t, tc.ok, resp.OK)
			assert.NotEmpty(t, resp.ID)
			if tc.id != "" {
				assert.Equal(t, tc.id, resp.ID)
			}
			if tc.errPart != "" {
				assert.Contains(t, resp.Error, tc.errPart)
				return
			}

			var result map[string]any
			require.NoError(t, json.Unmarshal(resp.Result, &result))
			for _, key := range tc.keys {
				assert.Contains(t, result, key)
			}
		})
	}

	stats := s.GetStats()
	assert.Equal(t, uint64(7), stats["total_requests"])
	assert.Equal(t, uint64(3), stats["invalid_requests"])
}

func TestQueryServer_QueryPage(t *testing.T) {
	s := newTestServer(t, nil)

	var resp struct {
		Result struct {
			Data []struct {
				Timestamp string `json:"timestamp"`
			} `json:"data"`
			Total int `json:"total"`
		} `json:"result"`
	}
	out := s.handleLine([]byte(`{"op":"query","params":{"page":"2","pageSize":1,"eventType":"all"}}`))
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, 2, resp.Result.Total)
	require.Len(t, resp.Result.Data, 1)
	assert.Equal(t, "2024-01-01T00:00:00Z", resp.Result.Data[0].Timestamp)
}

func TestQueryServer_ServeLineRateLimit(t *testing.T) {
	s := newTestServer(t, &config.NetAccessConfig{RequestsPerSecond: 0.001, Burst: 2})
	defer s.netLimiter.Shutdown()

	client := &net.TCPAddr{IP: net.ParseIP("192.0.2.7"), Port: 40000}
	for i := 0; i < 2; i++ {
		var resp rawResponse
		require.NoError(t, json.Unmarshal(s.serveLine(client, []byte(`{"op":"stats"}`)), &resp))
		assert.True(t, resp.OK)
	}

	var limited rawResponse
	require.NoError(t, json.Unmarshal(s.serveLine(client, []byte(`{"op":"stats"}`)), &limited))
	assert.False(t, limited.OK)
	assert.Equal(t, string(limit.ReasonRateLimited), limited.Error)

	stats := s.GetStats()
	assert.Equal(t, uint64(1), stats["denied_requests"])
	assert.Equal(t, uint64(2), stats["total_requests"])
}

func TestSplitLines(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		lines     []string
		remainder string
	}{
		{name: "Complete", input: "a\nb\n", lines: []string{"a", "b"}},
		{name: "Partial", input: "a\nbc", lines: []string{"a"}, remainder: "bc"},
		{name: "CRLFAndBlank", input: "a\r\n\r\n\nb\n", lines: []string{"a", "b"}},
		{name: "NoNewline", input: "abc", remainder: "abc"},
		{name: "Empty", input: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			rest := splitLines([]byte(tc.input), func(line []byte) {
				got = append(got, string(line))
			})
			assert.Equal(t, tc.lines, got)
			assert.Equal(t, tc.remainder, string(rest))
		})
	}
}
