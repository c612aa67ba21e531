// FILE: evewatch/src/internal/analysis/analysis_test.go
package analysis

import (
	"encoding/json"
	"testing"

	"evewatch/src/internal/config"
	"evewatch/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func rec(ts, eventType string) core.Record {
	t, err := core.ParseTimestamp(ts)
	if err != nil {
		panic(err)
	}
	return core.Record{Timestamp: ts, Time: t, EventType: eventType}
}

func fixture() []core.Record {
	a := rec("2024-01-03T00:00:00Z", "alert")
	a.SrcIP, a.DestIP, a.Proto = "10.0.0.9", "192.168.1.5", "TCP"
	a.SrcPort, a.DestPort = intPtr(40000), intPtr(22)
	a.Alert = &core.Alert{Signature: "ET SCAN SSH brute force", Category: "Attempted Recon", Severity: 2}

	b := rec("2024-01-02T00:00:00Z", "alert")
	b.SrcIP, b.DestIP, b.Proto = "10.0.0.7", "192.168.1.5", "TCP"
	b.DestPort = intPtr(3389)
	b.Alert = &core.Alert{Signature: "Policy violation", Category: "Policy", Severity: 3}

	c := rec("2024-01-02T00:00:00Z", "tls")
	c.SrcIP, c.DestIP, c.Proto = "192.168.1.5", "1.1.1.1", "TCP"
	c.DestPort = intPtr(443)
	c.TLS = &core.TLS{Version: "TLS 1.2", SNI: "one.example", JA3: &core.Fingerprint{Hash: "j1"}}

	d := rec("2024-01-01T00:00:00Z", "tls")
	d.SrcIP, d.Proto = "192.168.1.6", "TCP"
	d.TLS = &core.TLS{Version: "TLS 1.3", SNI: "one.example"}

	e := rec("2024-01-01T00:00:00Z", "dns")
	e.SrcIP, e.Proto = "192.168.1.6", "UDP"
	e.DestPort = intPtr(22)

	f := rec("2024-01-01T00:00:00Z", "quic")
	f.QUIC = &core.QUIC{Version: "1", SNI: "two.example", JA3: &core.Fingerprint{Hash: "j2"}}

	return []core.Record{a, b, c, d, e, f}
}

func TestTally(t *testing.T) {
	tally := NewTally()
	for _, k := range []string{"b", "a", "", "c", "a", "b", "d"} {
		tally.Add(k)
	}

	assert.Equal(t, 4, tally.Len())
	assert.Equal(t, 6, tally.Total())
	assert.Equal(t, 2, tally.Count("a"))
	assert.Equal(t, 0, tally.Count("zzz"))

	// b and a tie, b was seen first
	assert.Equal(t, Ranking{{"b", 2}, {"a", 2}, {"c", 1}}, tally.Top(3))
	assert.Equal(t, Ranking{{"b", 2}, {"a", 2}, {"c", 1}, {"d", 1}}, tally.Top(0))
	assert.Equal(t, Ranking{{"b", 2}, {"a", 2}, {"c", 1}, {"d", 1}}, tally.All())
}

func TestRanking_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Ranking{{"z", 3}, {`quo"te`, 1}, {"a", 1}})
	require.NoError(t, err)
	assert.Equal(t, `{"z":3,"quo\"te":1,"a":1}`, string(out))

	var empty Ranking
	out, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestComputeStats(t *testing.T) {
	opts := DefaultOptions()

	t.Run("Empty", func(t *testing.T) {
		s := ComputeStats(nil, opts)
		assert.Equal(t, Stats{TotalEvents: 0, UniqueIPs: 0, TopTLSVersion: "TLS 1.3", TLSTrafficPercentage: 0}, s)
	})

	t.Run("TwoRecordExample", func(t *testing.T) {
		tls := rec("2024-01-01T00:00:00Z", "tls")
		alert := rec("2024-01-02T00:00:00Z", "alert")
		s := ComputeStats([]core.Record{alert, tls}, opts)
		assert.Equal(t, 2, s.TotalEvents)
		assert.Equal(t, 50, s.TLSTrafficPercentage)
	})

	t.Run("Fixture", func(t *testing.T) {
		s := ComputeStats(fixture(), opts)
		assert.Equal(t, 6, s.TotalEvents)
		// 10.0.0.9 10.0.0.7 192.168.1.5 1.1.1.1 192.168.1.6
		assert.Equal(t, 5, s.UniqueIPs)
		// TLS 1.2 and 1.3 tie, 1.2 seen first
		assert.Equal(t, "TLS 1.2", s.TopTLSVersion)
		// 2 of 6 -> 33.3
		assert.Equal(t, 33, s.TLSTrafficPercentage)
	})

	t.Run("CustomFallback", func(t *testing.T) {
		o := opts
		o.DefaultTLSVersion = "none"
		assert.Equal(t, "none", ComputeStats([]core.Record{rec("2024-01-01", "dns")}, o).TopTLSVersion)
	})
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 50, Percentage(1, 2))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 1, Percentage(1, 200))
	assert.Equal(t, 100, Percentage(3, 3))
}

func TestAnalyzeThreats(t *testing.T) {
	th := AnalyzeThreats(fixture(), DefaultOptions())

	// Severity 2 is within the threshold, severity 3 is not
	require.Len(t, th.HighSeverityAlerts, 1)
	assert.Equal(t, "ET SCAN SSH brute force", th.HighSeverityAlerts[0].Signature)
	assert.Equal(t, "10.0.0.9", th.HighSeverityAlerts[0].SrcIP)

	assert.Equal(t, []string{"10.0.0.9", "192.168.1.5", "10.0.0.7"}, th.SuspiciousIPs)
	assert.Equal(t, []int{22, 3389}, th.UnusualPorts)
	assert.NotNil(t, th.PotentialAttacks)
	assert.Empty(t, th.PotentialAttacks)

	t.Run("StricterThreshold", func(t *testing.T) {
		opts := DefaultOptions()
		opts.HighSeverityThreshold = 1
		assert.Empty(t, AnalyzeThreats(fixture(), opts).HighSeverityAlerts)
	})

	t.Run("ZeroSeverityIsNotHigh", func(t *testing.T) {
		r := rec("2024-01-01", "alert")
		r.Alert = &core.Alert{Signature: "unknown"}
		assert.Empty(t, AnalyzeThreats([]core.Record{r}, DefaultOptions()).HighSeverityAlerts)
	})
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixture(), DefaultOptions())

	assert.Equal(t, 6, s.TotalLogs)
	require.NotNil(t, s.TimeRange.Start)
	require.NotNil(t, s.TimeRange.End)
	assert.Equal(t, "2024-01-01T00:00:00Z", *s.TimeRange.Start)
	assert.Equal(t, "2024-01-03T00:00:00Z", *s.TimeRange.End)

	assert.Equal(t, Ranking{{"192.168.1.6", 2}, {"10.0.0.9", 1}, {"10.0.0.7", 1}, {"192.168.1.5", 1}}, s.TopSourceIPs)
	assert.Equal(t, Ranking{{"192.168.1.5", 2}, {"1.1.1.1", 1}}, s.TopDestinationIPs)
	assert.Equal(t, Ranking{{"ET SCAN SSH brute force", 1}, {"Policy violation", 1}}, s.AlertTypes)
	assert.Equal(t, Ranking{{"TCP", 4}, {"UDP", 1}}, s.Protocols)
	assert.Equal(t, Ranking{{"Destination Port 22", 2}, {"Source Port 40000", 1}, {"Destination Port 3389", 1}, {"Destination Port 443", 1}}, s.Ports)
	assert.Equal(t, 2, s.AlertCount)
	assert.NotNil(t, s.SecuritySuggestions)

	t.Run("Empty", func(t *testing.T) {
		empty := Summarize(nil, DefaultOptions())
		assert.Equal(t, 0, empty.TotalLogs)
		assert.Nil(t, empty.TimeRange.Start)

		out, err := json.Marshal(empty)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"time_range":{"start":null,"end":null}`)
		assert.Contains(t, string(out), `"top_source_ips":{}`)
		assert.Contains(t, string(out), `"suspicious_ips":[]`)
	})

	t.Run("TopNLimit", func(t *testing.T) {
		opts := DefaultOptions()
		opts.TopN = 1
		limited := Summarize(fixture(), opts)
		assert.Len(t, limited.TopSourceIPs, 1)
		assert.Len(t, limited.Protocols, 2)
	})
}

func TestComputeTraffic(t *testing.T) {
	tr := ComputeTraffic(fixture(), DefaultOptions())

	assert.Equal(t, Ranking{{"alert", 2}, {"tls", 2}, {"dns", 1}, {"quic", 1}}, tr.EventTypes)
	assert.Equal(t, Ranking{{"TLS 1.2", 1}, {"TLS 1.3", 1}}, tr.TLSVersions)
	assert.Equal(t, Ranking{{"one.example", 2}, {"two.example", 1}}, tr.TopSNI)
	assert.Equal(t, Ranking{{"j1", 1}, {"j2", 1}}, tr.TopJA3)
	assert.Equal(t, Ranking{{"Attempted Recon", 1}, {"Policy", 1}}, tr.AlertCategories)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.AnalysisConfig{
		TopN:                  5,
		HighSeverityThreshold: 1,
		UnusualPorts:          []int64{8080},
		AttackKeywords:        []string{" Botnet ", ""},
		AlertVolumeThreshold:  7,
	})

	assert.Equal(t, 5, opts.TopN)
	assert.Equal(t, 1, opts.HighSeverityThreshold)
	assert.Equal(t, "TLS 1.3", opts.DefaultTLSVersion)
	assert.Equal(t, []int{8080}, opts.UnusualPorts)
	assert.Equal(t, []string{"botnet"}, opts.AttackKeywords)
	assert.Equal(t, 7, opts.AlertVolumeThreshold)
	assert.Equal(t, 1000, opts.TCPVolumeThreshold)

	// Zero values keep the defaults
	assert.Equal(t, DefaultOptions(), OptionsFromConfig(config.AnalysisConfig{}))
}
