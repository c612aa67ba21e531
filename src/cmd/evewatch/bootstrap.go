// FILE: evewatch/src/cmd/evewatch/bootstrap.go
package main

import (
	"context"
	"fmt"

	"evewatch/src/internal/config"
	"evewatch/src/internal/service"
	"evewatch/src/internal/version"

	"github.com/lixenwraith/log"
)

// bootstrapService creates the service and starts its listeners
func bootstrapService(ctx context.Context, cfg *config.Config) (*service.Service, error) {
	svc, err := service.NewService(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := svc.Start(); err != nil {
		svc.Shutdown()
		return nil, err
	}

	logger.Info("msg", "EveWatch started",
		"version", version.Short(),
		"source", cfg.Source.Path)

	stdio.endpoints(cfg)
	return svc, nil
}

// initializeLogger builds the process logger from the [logging] section
func initializeLogger(cfg *config.Config) error {
	logger = log.NewLogger()

	if cfg.Quiet {
		return logger.InitWithDefaults("disable_file=true", "enable_stdout=false", "level=255")
	}

	args, err := cfg.Logging.InitArgs()
	if err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return logger.InitWithDefaults(args...)
}
