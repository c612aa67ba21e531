// FILE: evewatch/src/internal/server/server.go
package server

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"evewatch/src/internal/config"
	"evewatch/src/internal/engine"
	"evewatch/src/internal/limit"
	"evewatch/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/lixenwraith/log/compat"
	"github.com/valyala/fasthttp"
)

// Endpoint paths below the API prefix
const (
	PathLogs    = "/eve-logs"
	PathStats   = "/eve-logs/stats"
	PathTraffic = "/eve-logs/traffic"
	PathReload  = "/eve-logs/reload"
	PathAnalyze = "/v1/analyze"
)

// APIServer serves the query API over HTTP
type APIServer struct {
	// Configuration reference (NOT a copy)
	config *config.HTTPConfig

	engine     *engine.Engine
	server     *fasthttp.Server
	netLimiter *limit.NetLimiter
	logger     *log.Logger
	startTime  time.Time

	routes map[string]route

	// Statistics
	totalRequests atomic.Uint64
	clientErrors  atomic.Uint64
	serverErrors  atomic.Uint64
	deniedCount   atomic.Uint64
	lastRequest   atomic.Value // time.Time
}

type route struct {
	method  string
	handler fasthttp.RequestHandler
}

// NewAPIServer creates the HTTP API over the engine
func NewAPIServer(cfg *config.HTTPConfig, eng *engine.Engine, logger *log.Logger) (*APIServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("HTTP config cannot be nil")
	}
	if eng == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}

	s := &APIServer{
		config:     cfg,
		engine:     eng,
		netLimiter: limit.NewNetLimiter(cfg.NetAccess, logger),
		logger:     logger,
		startTime:  time.Now(),
	}
	s.lastRequest.Store(time.Time{})

	prefix := strings.TrimSuffix(cfg.APIPrefix, "/")
	s.routes = map[string]route{
		"/":                  {method: fasthttp.MethodGet, handler: s.handleRoot},
		s.statusPath():       {method: fasthttp.MethodGet, handler: s.handleStatus},
		prefix + PathLogs:    {method: fasthttp.MethodGet, handler: s.handleQuery},
		prefix + PathStats:   {method: fasthttp.MethodGet, handler: s.handleStats},
		prefix + PathTraffic: {method: fasthttp.MethodGet, handler: s.handleTraffic},
		prefix + PathAnalyze: {method: fasthttp.MethodGet, handler: s.handleAnalyze},
		prefix + PathReload:  {method: fasthttp.MethodPost, handler: s.handleReload},
	}

	return s, nil
}

// Start begins listening; it returns once the listener is up or failed
func (s *APIServer) Start(ctx context.Context) error {
	fasthttpLogger := compat.NewFastHTTPAdapter(s.logger)

	s.server = &fasthttp.Server{
		Name:             fmt.Sprintf("EveWatch/%s", version.Short()),
		Handler:          s.requestHandler,
		DisableKeepalive: false,
		Logger:           fasthttpLogger,
		ReadTimeout:      time.Duration(s.config.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout:     time.Duration(s.config.WriteTimeoutMs) * time.Millisecond,
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	// Run server in separate goroutine to avoid blocking
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("msg", "HTTP server started",
			"component", "http_server",
			"host", s.config.Host,
			"port", s.config.Port,
			"api_prefix", s.config.APIPrefix,
			"status_path", s.statusPath())

		if err := s.server.ListenAndServe(addr); err != nil {
			errChan <- err
		}
	}()

	// Monitor context for shutdown signal
	go func() {
		<-ctx.Done()
		s.shutdown()
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("HTTP server failed to start on %s: %w", addr, err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// Stop shuts down the listener and the net limiter
func (s *APIServer) Stop() {
	s.logger.Info("msg", "Stopping HTTP server", "component", "http_server")
	s.shutdown()
	s.netLimiter.Shutdown()
	s.logger.Info("msg", "HTTP server stopped", "component", "http_server")
}

func (s *APIServer) shutdown() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.server.ShutdownWithContext(ctx); err != nil {
		s.logger.Debug("msg", "HTTP server shutdown incomplete",
			"component", "http_server",
			"error", err)
	}
}

// GetStats returns server statistics
func (s *APIServer) GetStats() map[string]any {
	lastReq, _ := s.lastRequest.Load().(time.Time)

	return map[string]any{
		"type":           "http",
		"host":           s.config.Host,
		"port":           s.config.Port,
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
		"total_requests": s.totalRequests.Load(),
		"client_errors":  s.clientErrors.Load(),
		"server_errors":  s.serverErrors.Load(),
		"denied":         s.deniedCount.Load(),
		"last_request":   lastReq,
		"net_limit":      s.netLimiter.GetStats(),
	}
}

// Endpoints lists the served paths by name
func (s *APIServer) Endpoints() map[string]string {
	prefix := strings.TrimSuffix(s.config.APIPrefix, "/")
	return map[string]string{
		"query":   prefix + PathLogs,
		"stats":   prefix + PathStats,
		"traffic": prefix + PathTraffic,
		"analyze": prefix + PathAnalyze,
		"reload":  prefix + PathReload,
		"status":  s.statusPath(),
	}
}

func (s *APIServer) statusPath() string {
	if s.config.StatusPath == "" {
		return "/status"
	}
	return s.config.StatusPath
}
