// FILE: evewatch/src/internal/core/record.go
package core

import (
	"encoding/json"
	"time"
)

// Record is one normalized eve log entry.
// Only Timestamp and EventType are guaranteed; everything else may be absent.
type Record struct {
	Timestamp string    `json:"timestamp"`
	Time      time.Time `json:"-"`
	EventType string    `json:"event_type"`
	FlowID    *int64    `json:"flow_id,omitempty"`
	InIface   string    `json:"in_iface,omitempty"`
	SrcIP     string    `json:"src_ip,omitempty"`
	SrcPort   *int      `json:"src_port,omitempty"`
	DestIP    string    `json:"dest_ip,omitempty"`
	DestPort  *int      `json:"dest_port,omitempty"`
	Proto     string    `json:"proto,omitempty"`
	AppProto  string    `json:"app_proto,omitempty"`

	TLS   *TLS            `json:"tls,omitempty"`
	DNS   *DNS            `json:"dns,omitempty"`
	QUIC  *QUIC           `json:"quic,omitempty"`
	Alert *Alert          `json:"alert,omitempty"`
	Flow  *Flow           `json:"flow,omitempty"`
	Stats json.RawMessage `json:"stats,omitempty"`

	// Raw holds the source line when the record was decoded from one
	Raw []byte `json:"-"`
}

type Fingerprint struct {
	Hash   string `json:"hash"`
	String string `json:"string,omitempty"`
}

type TLS struct {
	SNI     string       `json:"sni,omitempty"`
	Version string       `json:"version,omitempty"`
	JA3     *Fingerprint `json:"ja3,omitempty"`
	JA3S    *Fingerprint `json:"ja3s,omitempty"`
}

type DNSAnswer struct {
	RRName string `json:"rrname,omitempty"`
	RRType string `json:"rrtype,omitempty"`
	TTL    int    `json:"ttl,omitempty"`
	RData  string `json:"rdata,omitempty"`
}

type DNS struct {
	Version int                 `json:"version,omitempty"`
	Type    string              `json:"type,omitempty"`
	ID      int                 `json:"id,omitempty"`
	RRName  string              `json:"rrname,omitempty"`
	RRType  string              `json:"rrtype,omitempty"`
	RCode   string              `json:"rcode,omitempty"`
	Answers []DNSAnswer         `json:"answers,omitempty"`
	Grouped map[string][]string `json:"grouped,omitempty"`
}

type QUIC struct {
	Version string       `json:"version,omitempty"`
	SNI     string       `json:"sni,omitempty"`
	JA3     *Fingerprint `json:"ja3,omitempty"`
}

// Alert severity follows Suricata: 1 is the most severe
type Alert struct {
	Action      string `json:"action,omitempty"`
	GID         int    `json:"gid,omitempty"`
	SignatureID int    `json:"signature_id,omitempty"`
	Rev         int    `json:"rev,omitempty"`
	Signature   string `json:"signature,omitempty"`
	Category    string `json:"category,omitempty"`
	Severity    int    `json:"severity,omitempty"`
}

type Flow struct {
	PktsToServer  int64  `json:"pkts_toserver,omitempty"`
	PktsToClient  int64  `json:"pkts_toclient,omitempty"`
	BytesToServer int64  `json:"bytes_toserver,omitempty"`
	BytesToClient int64  `json:"bytes_toclient,omitempty"`
	Start         string `json:"start,omitempty"`
	End           string `json:"end,omitempty"`
}

// recordFields breaks the MarshalJSON recursion
type recordFields Record

// MarshalJSON emits the original source line when available so fields
// outside the normalized model survive a round trip to clients.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 && json.Valid(r.Raw) {
		return r.Raw, nil
	}
	return json.Marshal(recordFields(r))
}

// TLSVersion returns the TLS version or "" when the record carries no tls object.
func (r *Record) TLSVersion() string {
	if r.TLS == nil {
		return ""
	}
	return r.TLS.Version
}

// IsAlert reports whether the record carries an alert object.
func (r *Record) IsAlert() bool {
	return r.Alert != nil
}
