// FILE: evewatch/src/internal/analysis/traffic.go
package analysis

import "evewatch/src/internal/core"

// Traffic is the distribution data behind the chart surfaces
type Traffic struct {
	EventTypes      Ranking `json:"eventTypes"`
	TLSVersions     Ranking `json:"tlsVersions"`
	TopSNI          Ranking `json:"topSni"`
	TopJA3          Ranking `json:"topJa3"`
	AlertCategories Ranking `json:"alertCategories"`
	Protocols       Ranking `json:"protocols"`
}

// ComputeTraffic tallies event types, TLS versions, SNI and JA3 hashes.
// QUIC handshakes contribute their SNI and JA3 alongside TLS.
func ComputeTraffic(records []core.Record, opts Options) Traffic {
	eventTypes := NewTally()
	versions := NewTally()
	sni := NewTally()
	ja3 := NewTally()
	categories := NewTally()
	protocols := NewTally()

	for i := range records {
		r := &records[i]
		eventTypes.Add(r.EventType)
		protocols.Add(r.Proto)

		if r.TLS != nil {
			versions.Add(r.TLS.Version)
			sni.Add(r.TLS.SNI)
			if r.TLS.JA3 != nil {
				ja3.Add(r.TLS.JA3.Hash)
			}
		}
		if r.QUIC != nil {
			sni.Add(r.QUIC.SNI)
			if r.QUIC.JA3 != nil {
				ja3.Add(r.QUIC.JA3.Hash)
			}
		}
		if r.Alert != nil {
			categories.Add(r.Alert.Category)
		}
	}

	return Traffic{
		EventTypes:      eventTypes.Top(0),
		TLSVersions:     versions.Top(0),
		TopSNI:          sni.Top(opts.TopN),
		TopJA3:          ja3.Top(opts.TopN),
		AlertCategories: categories.Top(opts.TopN),
		Protocols:       protocols.Top(0),
	}
}
