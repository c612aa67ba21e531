// FILE: evewatch/src/internal/transport/protocol.go
package transport

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"

	"evewatch/src/internal/limit"

	"github.com/google/uuid"
)

// Operations understood by the query listener
const (
	OpQuery   = "query"
	OpStats   = "stats"
	OpSummary = "summary"
	OpTraffic = "traffic"
)

// Request is one line sent by a client
type Request struct {
	ID     string         `json:"id,omitempty"`
	Op     string         `json:"op"`
	Params map[string]any `json:"params,omitempty"`
}

// Response is one line sent back; exactly one of Result and Error is set
type Response struct {
	ID     string `json:"id"`
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// serveLine applies the per-client request limit before answering a line
func (s *QueryServer) serveLine(remoteAddr net.Addr, line []byte) []byte {
	if reason := s.netLimiter.CheckTCP(remoteAddr); reason != limit.ReasonAllowed {
		s.deniedRequests.Add(1)
		s.logger.Warn("msg", "TCP request net limited",
			"component", "tcp_server",
			"remote_addr", remoteAddr,
			"error", string(reason))
		return encodeResponse(Response{ID: uuid.NewString(), Error: string(reason)})
	}
	return s.handleLine(line)
}

// handleLine answers one request line with one newline-terminated JSON response
func (s *QueryServer) handleLine(line []byte) []byte {
	s.totalRequests.Add(1)

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.invalidRequests.Add(1)
		return encodeResponse(Response{ID: uuid.NewString(), Error: "invalid request: " + err.Error()})
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	resp := Response{ID: req.ID, OK: true}
	switch req.Op {
	case OpQuery:
		page, err := s.engine.QueryParams(paramGetter(req.Params))
		if err != nil {
			s.invalidRequests.Add(1)
			return encodeResponse(Response{ID: req.ID, Error: err.Error()})
		}
		resp.Result = page
	case OpStats:
		resp.Result = s.engine.Stats()
	case OpSummary:
		resp.Result = s.engine.Summary()
	case OpTraffic:
		resp.Result = s.engine.Traffic()
	default:
		s.invalidRequests.Add(1)
		return encodeResponse(Response{ID: req.ID, Error: fmt.Sprintf("unknown op %q", req.Op)})
	}

	return encodeResponse(resp)
}

// paramGetter exposes JSON params as strings; numbers and booleans are
// formatted so clients may send {"page": 2} or {"page": "2"}
func paramGetter(params map[string]any) func(string) string {
	return func(key string) string {
		switch v := params[key].(type) {
		case nil:
			return ""
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		default:
			return fmt.Sprint(v)
		}
	}
}

func encodeResponse(resp Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		data, _ = json.Marshal(Response{ID: resp.ID, Error: "failed to encode response"})
	}
	return append(data, '\n')
}
