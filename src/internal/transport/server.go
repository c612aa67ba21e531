// FILE: evewatch/src/internal/transport/server.go
package transport

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"evewatch/src/internal/config"
	"evewatch/src/internal/engine"
	"evewatch/src/internal/limit"

	"github.com/lixenwraith/log"
	"github.com/lixenwraith/log/compat"
	"github.com/panjf2000/gnet/v2"
)

const (
	maxClientBufferSize = 1 * 1024 * 1024 // 1MB max pending request data per client
)

// QueryServer answers newline-delimited JSON query requests over TCP
type QueryServer struct {
	config     *config.TCPConfig
	engine     *engine.Engine
	handler    *tcpQueryHandler
	netLimiter *limit.NetLimiter
	logger     *log.Logger
	startTime  time.Time

	gnetEngine *gnet.Engine
	engineMu   sync.Mutex
	wg         sync.WaitGroup

	// Statistics
	activeConns     atomic.Int64
	totalConns      atomic.Uint64
	deniedConns     atomic.Uint64
	deniedRequests  atomic.Uint64
	totalRequests   atomic.Uint64
	invalidRequests atomic.Uint64
}

// NewQueryServer creates the TCP query listener over the engine
func NewQueryServer(cfg *config.TCPConfig, eng *engine.Engine, logger *log.Logger) (*QueryServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("TCP config cannot be nil")
	}
	if eng == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}

	return &QueryServer{
		config:     cfg,
		engine:     eng,
		netLimiter: limit.NewNetLimiter(cfg.NetAccess, logger),
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// Start runs the gnet engine; it returns once the listener is up or failed
func (s *QueryServer) Start() error {
	s.handler = &tcpQueryHandler{
		server:  s,
		clients: make(map[gnet.Conn]*tcpClient),
	}

	addr := fmt.Sprintf("tcp://%s:%d", s.config.Host, s.config.Port)
	gnetLogger := compat.NewGnetAdapter(s.logger)

	errChan := make(chan error, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info("msg", "TCP query server starting",
			"component", "tcp_server",
			"host", s.config.Host,
			"port", s.config.Port)

		err := gnet.Run(s.handler, addr,
			gnet.WithLogger(gnetLogger),
			gnet.WithMulticore(true),
			gnet.WithReusePort(true),
		)
		if err != nil {
			s.logger.Error("msg", "TCP query server failed",
				"component", "tcp_server",
				"port", s.config.Port,
				"error", err)
		}
		errChan <- err
	}()

	select {
	case err := <-errChan:
		s.wg.Wait()
		return fmt.Errorf("TCP server failed to start on %s: %w", addr, err)
	case <-time.After(100 * time.Millisecond):
		s.logger.Info("msg", "TCP query server started",
			"component", "tcp_server",
			"port", s.config.Port)
		return nil
	}
}

// Stop shuts down the gnet engine and the net limiter
func (s *QueryServer) Stop() {
	s.logger.Info("msg", "Stopping TCP query server", "component", "tcp_server")

	s.engineMu.Lock()
	eng := s.gnetEngine
	s.engineMu.Unlock()

	if eng != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := eng.Stop(ctx); err != nil {
			s.logger.Debug("msg", "TCP engine stop incomplete",
				"component", "tcp_server",
				"error", err)
		}
	}

	s.netLimiter.Shutdown()
	s.wg.Wait()

	s.logger.Info("msg", "TCP query server stopped", "component", "tcp_server")
}

// GetStats returns listener statistics
func (s *QueryServer) GetStats() map[string]any {
	return map[string]any{
		"type":               "tcp",
		"host":               s.config.Host,
		"port":               s.config.Port,
		"uptime_seconds":     int(time.Since(s.startTime).Seconds()),
		"active_connections": s.activeConns.Load(),
		"total_connections":  s.totalConns.Load(),
		"denied_connections": s.deniedConns.Load(),
		"denied_requests":    s.deniedRequests.Load(),
		"total_requests":     s.totalRequests.Load(),
		"invalid_requests":   s.invalidRequests.Load(),
		"net_limit":          s.netLimiter.GetStats(),
	}
}

type tcpClient struct {
	buffer []byte
}

type tcpQueryHandler struct {
	gnet.BuiltinEventEngine
	server  *QueryServer
	clients map[gnet.Conn]*tcpClient
	mu      sync.RWMutex
}

func (h *tcpQueryHandler) OnBoot(eng gnet.Engine) gnet.Action {
	h.server.engineMu.Lock()
	h.server.gnetEngine = &eng
	h.server.engineMu.Unlock()

	h.server.logger.Debug("msg", "TCP query server booted",
		"component", "tcp_server",
		"port", h.server.config.Port)
	return gnet.None
}

func (h *tcpQueryHandler) OnOpen(c gnet.Conn) (out []byte, action gnet.Action) {
	remoteAddr := c.RemoteAddr().String()

	if !h.server.netLimiter.AcceptTCP(c.RemoteAddr()) {
		h.server.deniedConns.Add(1)
		h.server.logger.Warn("msg", "TCP connection net limited",
			"component", "tcp_server",
			"remote_addr", remoteAddr)
		return nil, gnet.Close
	}

	h.mu.Lock()
	h.clients[c] = &tcpClient{}
	h.mu.Unlock()

	h.server.totalConns.Add(1)
	newCount := h.server.activeConns.Add(1)
	h.server.logger.Debug("msg", "TCP connection opened",
		"component", "tcp_server",
		"remote_addr", remoteAddr,
		"active_connections", newCount)

	return nil, gnet.None
}

func (h *tcpQueryHandler) OnClose(c gnet.Conn, err error) gnet.Action {
	h.mu.Lock()
	_, tracked := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if !tracked {
		return gnet.None
	}

	newCount := h.server.activeConns.Add(-1)
	h.server.logger.Debug("msg", "TCP connection closed",
		"component", "tcp_server",
		"remote_addr", c.RemoteAddr().String(),
		"active_connections", newCount,
		"error", err)
	return gnet.None
}

func (h *tcpQueryHandler) OnTraffic(c gnet.Conn) gnet.Action {
	h.mu.RLock()
	client, exists := h.clients[c]
	h.mu.RUnlock()

	if !exists {
		return gnet.Close
	}

	data, err := c.Next(-1)
	if err != nil {
		h.server.logger.Error("msg", "Error reading from connection",
			"component", "tcp_server",
			"error", err)
		return gnet.Close
	}

	if len(client.buffer)+len(data) > maxClientBufferSize {
		h.server.invalidRequests.Add(1)
		h.server.logger.Warn("msg", "Client buffer limit exceeded, closing connection",
			"component", "tcp_server",
			"remote_addr", c.RemoteAddr().String(),
			"buffer_size", len(client.buffer),
			"incoming_size", len(data))
		return gnet.Close
	}
	client.buffer = append(client.buffer, data...)

	var out []byte
	client.buffer = splitLines(client.buffer, func(line []byte) {
		out = append(out, h.server.serveLine(c.RemoteAddr(), line)...)
	})

	if len(out) > 0 {
		if _, err := c.Write(out); err != nil {
			h.server.logger.Debug("msg", "Failed to write response",
				"component", "tcp_server",
				"remote_addr", c.RemoteAddr().String(),
				"error", err)
			return gnet.Close
		}
	}
	return gnet.None
}

// splitLines calls fn for every complete non-blank line in buf and returns
// the unterminated remainder
func splitLines(buf []byte, fn func(line []byte)) []byte {
	for {
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			break
		}

		line := buf[:idx]
		buf = buf[idx+1:]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		if len(line) > 0 {
			fn(line)
		}
	}

	if len(buf) == 0 {
		return nil
	}
	// Detach the remainder from the consumed prefix
	return append([]byte(nil), buf...)
}
