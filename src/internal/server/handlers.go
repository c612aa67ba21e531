// FILE: evewatch/src/internal/server/handlers.go
package server

import (
	"encoding/json"
	"errors"
	"slices"
	"time"

	"evewatch/src/internal/engine"
	"evewatch/src/internal/version"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const headerRequestID = "X-Request-ID"

func (s *APIServer) requestHandler(ctx *fasthttp.RequestCtx) {
	s.totalRequests.Add(1)
	s.lastRequest.Store(time.Now())

	requestID := string(ctx.Request.Header.Peek(headerRequestID))
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx.Response.Header.Set(headerRequestID, requestID)

	remoteAddr := ctx.RemoteAddr().String()

	// Check net limit
	if allowed, statusCode, message := s.netLimiter.CheckHTTP(remoteAddr); !allowed {
		s.deniedCount.Add(1)
		s.logger.Warn("msg", "Net limited",
			"component", "http_server",
			"remote_addr", remoteAddr,
			"request_id", requestID,
			"status_code", statusCode,
			"error", message)
		s.writeError(ctx, statusCode, message)
		return
	}

	s.setCORSHeaders(ctx)
	if ctx.IsOptions() {
		ctx.SetStatusCode(fasthttp.StatusNoContent)
		return
	}

	path := string(ctx.Path())
	rt, ok := s.routes[path]
	if !ok {
		s.writeError(ctx, fasthttp.StatusNotFound, "Not Found")
		return
	}

	method := string(ctx.Method())
	if method != rt.method && !(rt.method == fasthttp.MethodGet && method == fasthttp.MethodHead) {
		ctx.Response.Header.Set("Allow", rt.method+", "+fasthttp.MethodOptions)
		s.writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	start := time.Now()
	rt.handler(ctx)

	s.logger.Debug("msg", "Request served",
		"component", "http_server",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status_code", ctx.Response.StatusCode(),
		"duration_ms", time.Since(start).Milliseconds())
}

func (s *APIServer) setCORSHeaders(ctx *fasthttp.RequestCtx) {
	if len(s.config.CORSOrigins) == 0 {
		return
	}

	origin := string(ctx.Request.Header.Peek("Origin"))
	switch {
	case slices.Contains(s.config.CORSOrigins, "*"):
		ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
	case origin != "" && slices.Contains(s.config.CORSOrigins, origin):
		ctx.Response.Header.Set("Access-Control-Allow-Origin", origin)
		ctx.Response.Header.Add("Vary", "Origin")
	default:
		return
	}
	ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, "+headerRequestID)
	ctx.Response.Header.Set("Access-Control-Expose-Headers", headerRequestID)
}

func (s *APIServer) handleQuery(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	page, err := s.engine.QueryParams(func(key string) string {
		return string(args.Peek(key))
	})
	if err != nil {
		status := fasthttp.StatusInternalServerError
		if errors.Is(err, engine.ErrInvalidParam) {
			status = fasthttp.StatusBadRequest
		}
		s.writeError(ctx, status, err.Error())
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, page)
}

func (s *APIServer) handleStats(ctx *fasthttp.RequestCtx) {
	s.writeJSON(ctx, fasthttp.StatusOK, s.engine.Stats())
}

func (s *APIServer) handleTraffic(ctx *fasthttp.RequestCtx) {
	s.writeJSON(ctx, fasthttp.StatusOK, s.engine.Traffic())
}

func (s *APIServer) handleAnalyze(ctx *fasthttp.RequestCtx) {
	s.writeJSON(ctx, fasthttp.StatusOK, s.engine.Summary())
}

func (s *APIServer) handleReload(ctx *fasthttp.RequestCtx) {
	snap := s.engine.Reload()

	body := map[string]any{
		"source":           snap.Source,
		"records":          len(snap.Records),
		"lines":            snap.Lines,
		"malformed":        snap.Malformed,
		"filtered":         snap.Filtered,
		"loaded_at":        snap.LoadedAt,
		"load_duration_ms": snap.Duration.Milliseconds(),
	}
	if snap.Err != nil {
		body["error"] = snap.Err.Error()
	}
	s.writeJSON(ctx, fasthttp.StatusOK, body)
}

func (s *APIServer) handleRoot(ctx *fasthttp.RequestCtx) {
	s.writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"service":   "EveWatch",
		"version":   version.Short(),
		"endpoints": s.Endpoints(),
	})
}

func (s *APIServer) handleStatus(ctx *fasthttp.RequestCtx) {
	s.writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"service": "EveWatch",
		"version": version.Short(),
		"server":  s.GetStats(),
		"engine":  s.engine.GetStats(),
	})
}

func (s *APIServer) writeJSON(ctx *fasthttp.RequestCtx, statusCode int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.serverErrors.Add(1)
		s.logger.Error("msg", "Failed to encode response",
			"component", "http_server",
			"path", string(ctx.Path()),
			"error", err)
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"error":"Internal Server Error"}`)
		return
	}

	ctx.SetStatusCode(statusCode)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

func (s *APIServer) writeError(ctx *fasthttp.RequestCtx, statusCode int, message string) {
	if statusCode >= 500 {
		s.serverErrors.Add(1)
	} else {
		s.clientErrors.Add(1)
	}
	s.writeJSON(ctx, statusCode, map[string]string{"error": message})
}
