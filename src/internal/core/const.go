// FILE: evewatch/src/internal/core/const.go
package core

const (
	// Suricata writes microsecond precision with a numeric zone, e.g. 2024-01-01T10:00:00.123456+0000
	EveTimeLayout = "2006-01-02T15:04:05.999999-0700"
	DateLayout    = "2006-01-02"
)

// Event types with dedicated handling
const (
	EventAlert = "alert"
	EventTLS   = "tls"
	EventDNS   = "dns"
	EventQUIC  = "quic"
	EventFlow  = "flow"
	EventStats = "stats"
)

// FilterAll is the sentinel query value meaning "no constraint"
const FilterAll = "all"

const (
	DefaultPageSize     = 20
	DefaultMaxPageSize  = 10000
	DefaultTopN         = 10
	DefaultMaxLineBytes = 1 << 20
)
