// FILE: evewatch/src/internal/source/decode.go
package source

import (
	"errors"
	"fmt"

	"evewatch/src/internal/core"

	"github.com/valyala/fastjson"
)

var (
	ErrNotObject        = errors.New("line is not a JSON object")
	ErrMissingTimestamp = errors.New("missing timestamp")
	ErrMissingEventType = errors.New("missing event_type")
)

// Decoder turns raw eve lines into records. Safe for concurrent use.
type Decoder struct {
	parsers fastjson.ParserPool
}

// NewDecoder creates a decoder backed by a parser pool
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses a single eve line. The returned record does not alias line.
func (d *Decoder) Decode(line []byte) (core.Record, error) {
	p := d.parsers.Get()
	defer d.parsers.Put(p)

	v, err := p.ParseBytes(line)
	if err != nil {
		return core.Record{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if v.Type() != fastjson.TypeObject {
		return core.Record{}, ErrNotObject
	}

	ts := str(v, "timestamp")
	if ts == "" {
		return core.Record{}, ErrMissingTimestamp
	}
	t, err := core.ParseTimestamp(ts)
	if err != nil {
		return core.Record{}, err
	}

	eventType := str(v, "event_type")
	if eventType == "" {
		return core.Record{}, ErrMissingEventType
	}

	r := core.Record{
		Timestamp: ts,
		Time:      t,
		EventType: eventType,
		FlowID:    optInt64(v, "flow_id"),
		InIface:   str(v, "in_iface"),
		SrcIP:     str(v, "src_ip"),
		SrcPort:   optInt(v, "src_port"),
		DestIP:    str(v, "dest_ip"),
		DestPort:  optInt(v, "dest_port"),
		Proto:     str(v, "proto"),
		AppProto:  str(v, "app_proto"),
		TLS:       decodeTLS(v.Get("tls")),
		DNS:       decodeDNS(v.Get("dns")),
		QUIC:      decodeQUIC(v.Get("quic")),
		Alert:     decodeAlert(v.Get("alert")),
		Flow:      decodeFlow(v.Get("flow")),
		Raw:       append([]byte(nil), line...),
	}

	if s := v.Get("stats"); s != nil && s.Type() != fastjson.TypeNull {
		r.Stats = s.MarshalTo(nil)
	}

	return r, nil
}

func isObject(v *fastjson.Value) bool {
	return v != nil && v.Type() == fastjson.TypeObject
}

func str(v *fastjson.Value, keys ...string) string {
	return string(v.GetStringBytes(keys...))
}

func optInt64(v *fastjson.Value, key string) *int64 {
	n := v.Get(key)
	if n == nil || n.Type() != fastjson.TypeNumber {
		return nil
	}
	i, err := n.Int64()
	if err != nil {
		return nil
	}
	return &i
}

func optInt(v *fastjson.Value, key string) *int {
	n := v.Get(key)
	if n == nil || n.Type() != fastjson.TypeNumber {
		return nil
	}
	i, err := n.Int()
	if err != nil {
		return nil
	}
	return &i
}

func decodeFingerprint(v *fastjson.Value) *core.Fingerprint {
	if !isObject(v) {
		return nil
	}
	return &core.Fingerprint{
		Hash:   str(v, "hash"),
		String: str(v, "string"),
	}
}

func decodeTLS(v *fastjson.Value) *core.TLS {
	if !isObject(v) {
		return nil
	}
	return &core.TLS{
		SNI:     str(v, "sni"),
		Version: str(v, "version"),
		JA3:     decodeFingerprint(v.Get("ja3")),
		JA3S:    decodeFingerprint(v.Get("ja3s")),
	}
}

func decodeDNS(v *fastjson.Value) *core.DNS {
	if !isObject(v) {
		return nil
	}
	dns := &core.DNS{
		Version: v.GetInt("version"),
		Type:    str(v, "type"),
		ID:      v.GetInt("id"),
		RRName:  str(v, "rrname"),
		RRType:  str(v, "rrtype"),
		RCode:   str(v, "rcode"),
	}

	for _, a := range v.GetArray("answers") {
		if !isObject(a) {
			continue
		}
		dns.Answers = append(dns.Answers, core.DNSAnswer{
			RRName: str(a, "rrname"),
			RRType: str(a, "rrtype"),
			TTL:    a.GetInt("ttl"),
			RData:  str(a, "rdata"),
		})
	}

	if g := v.Get("grouped"); isObject(g) {
		obj, _ := g.Object()
		dns.Grouped = make(map[string][]string)
		obj.Visit(func(key []byte, val *fastjson.Value) {
			values := make([]string, 0)
			for _, item := range val.GetArray() {
				if b, err := item.StringBytes(); err == nil {
					values = append(values, string(b))
				}
			}
			dns.Grouped[string(key)] = values
		})
	}

	return dns
}

func decodeQUIC(v *fastjson.Value) *core.QUIC {
	if !isObject(v) {
		return nil
	}
	return &core.QUIC{
		Version: str(v, "version"),
		SNI:     str(v, "sni"),
		JA3:     decodeFingerprint(v.Get("ja3")),
	}
}

func decodeAlert(v *fastjson.Value) *core.Alert {
	if !isObject(v) {
		return nil
	}
	return &core.Alert{
		Action:      str(v, "action"),
		GID:         v.GetInt("gid"),
		SignatureID: v.GetInt("signature_id"),
		Rev:         v.GetInt("rev"),
		Signature:   str(v, "signature"),
		Category:    str(v, "category"),
		Severity:    v.GetInt("severity"),
	}
}

func decodeFlow(v *fastjson.Value) *core.Flow {
	if !isObject(v) {
		return nil
	}
	return &core.Flow{
		PktsToServer:  v.GetInt64("pkts_toserver"),
		PktsToClient:  v.GetInt64("pkts_toclient"),
		BytesToServer: v.GetInt64("bytes_toserver"),
		BytesToClient: v.GetInt64("bytes_toclient"),
		Start:         str(v, "start"),
		End:           str(v, "end"),
	}
}
