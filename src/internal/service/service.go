// FILE: evewatch/src/internal/service/service.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"evewatch/src/internal/analysis"
	"evewatch/src/internal/config"
	"evewatch/src/internal/engine"
	"evewatch/src/internal/server"
	"evewatch/src/internal/source"
	"evewatch/src/internal/transport"

	"github.com/lixenwraith/log"
)

// Service owns the dataset and the listeners that query it
type Service struct {
	config *config.Config
	loader *source.Loader
	engine *engine.Engine

	httpServer *server.APIServer
	tcpServer  *transport.QueryServer

	startTime time.Time
	mu        sync.Mutex
	started   bool
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *log.Logger
}

// NewService builds the loader and engine; listeners are created on Start
func NewService(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	loader, err := source.NewLoader(cfg.Source, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create loader: %w", err)
	}

	eng := engine.New(loader, cfg.Query, analysis.OptionsFromConfig(cfg.Analysis), logger)

	serviceCtx, cancel := context.WithCancel(ctx)
	return &Service{
		config:    cfg,
		loader:    loader,
		engine:    eng,
		startTime: time.Now(),
		ctx:       serviceCtx,
		cancel:    cancel,
		logger:    logger,
	}, nil
}

// Engine returns the query engine
func (s *Service) Engine() *engine.Engine {
	return s.engine
}

// Start brings up the configured listeners. A failure stops anything already started.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("service already started")
	}

	if s.config.HTTP.Enabled {
		httpServer, err := server.NewAPIServer(&s.config.HTTP, s.engine, s.logger)
		if err != nil {
			return fmt.Errorf("failed to create HTTP server: %w", err)
		}
		if err := httpServer.Start(s.ctx); err != nil {
			return err
		}
		s.httpServer = httpServer
	}

	if s.config.TCP.Enabled {
		tcpServer, err := transport.NewQueryServer(&s.config.TCP, s.engine, s.logger)
		if err != nil {
			s.stopListeners()
			return fmt.Errorf("failed to create TCP server: %w", err)
		}
		if err := tcpServer.Start(); err != nil {
			s.stopListeners()
			return err
		}
		s.tcpServer = tcpServer
	}

	s.started = true
	s.logger.Info("msg", "Service started",
		"component", "service",
		"source", s.loader.Path(),
		"http_enabled", s.httpServer != nil,
		"tcp_enabled", s.tcpServer != nil)
	return nil
}

// Reload re-reads the source and swaps the dataset for all listeners
func (s *Service) Reload() *source.Snapshot {
	snap := s.engine.Reload()
	if snap.Err != nil {
		s.logger.Warn("msg", "Reload could not read source",
			"component", "service",
			"source", snap.Source,
			"error", snap.Err)
	}
	return snap
}

// Shutdown stops listeners; the dataset is discarded with the process
func (s *Service) Shutdown() {
	s.logger.Info("msg", "Service shutdown initiated", "component", "service")

	s.mu.Lock()
	s.stopListeners()
	s.started = false
	s.mu.Unlock()

	s.cancel()

	s.logger.Info("msg", "Service shutdown complete", "component", "service")
}

// stopListeners stops the HTTP and TCP servers concurrently. Caller holds mu.
func (s *Service) stopListeners() {
	var wg sync.WaitGroup
	if s.httpServer != nil {
		wg.Add(1)
		go func(srv *server.APIServer) {
			defer wg.Done()
			srv.Stop()
		}(s.httpServer)
	}
	if s.tcpServer != nil {
		wg.Add(1)
		go func(srv *transport.QueryServer) {
			defer wg.Done()
			srv.Stop()
		}(s.tcpServer)
	}
	wg.Wait()

	s.httpServer = nil
	s.tcpServer = nil
}

// GetGlobalStats returns statistics for the engine and all listeners
func (s *Service) GetGlobalStats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	listeners := make(map[string]any)
	if s.httpServer != nil {
		listeners["http"] = s.httpServer.GetStats()
	}
	if s.tcpServer != nil {
		listeners["tcp"] = s.tcpServer.GetStats()
	}

	return map[string]any{
		"uptime_seconds":  int(time.Since(s.startTime).Seconds()),
		"engine":          s.engine.GetStats(),
		"listeners":       listeners,
		"total_listeners": len(listeners),
	}
}
