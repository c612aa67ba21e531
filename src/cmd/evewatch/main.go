// FILE: evewatch/src/cmd/evewatch/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"evewatch/src/cmd/evewatch/commands"
	"evewatch/src/internal/config"
	"evewatch/src/internal/version"

	"github.com/lixenwraith/log"
)

var logger *log.Logger

func main() {
	// Subcommands run before any service initialization
	router := commands.NewCommandRouter()
	handled, err := router.Route(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if handled {
		os.Exit(0)
	}

	flagCfg, cfgArgs, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stdio.quiet = flagCfg.Quiet

	if flagCfg.ShowVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	if flagCfg.ConfigFile != "" {
		if _, err := os.Stat(flagCfg.ConfigFile); err != nil {
			stdio.fatalf(2, "Config file not found: %s\n", flagCfg.ConfigFile)
		}
		os.Setenv("EVEWATCH_CONFIG_FILE", flagCfg.ConfigFile)
	}

	cfg, err := config.Load(cfgArgs)
	if err != nil {
		stdio.fatalf(1, "Failed to load config: %v\n", err)
	}
	if flagCfg.Quiet {
		cfg.Quiet = true
	}
	stdio.quiet = cfg.Quiet

	if err := initializeLogger(cfg); err != nil {
		stdio.fatalf(1, "Failed to initialize logger: %v\n", err)
	}
	defer shutdownLogger()

	logger.Info("msg", "EveWatch starting",
		"version", version.String(),
		"config_file", cfg.ConfigFile,
		"source", cfg.Source.Path,
		"log_output", cfg.Logging.Output)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := bootstrapService(ctx, cfg)
	if err != nil {
		logger.Error("msg", "Failed to bootstrap service", "error", err)
		stdio.errorf("Failed to start: %v\n", err)
		shutdownLogger()
		os.Exit(1)
	}

	if !cfg.DisableStatusReporter && os.Getenv("EVEWATCH_DISABLE_STATUS_REPORTER") != "1" {
		interval := time.Duration(cfg.StatusIntervalSec) * time.Second
		go statusReporter(ctx, svc, interval)
	}

	sigHandler := NewSignalHandler(svc, logger)
	defer sigHandler.Stop()

	sig := sigHandler.Handle(ctx)
	logger.Info("msg", "Shutdown signal received, starting graceful shutdown",
		"signal", fmt.Sprint(sig))

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		svc.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("msg", "Shutdown complete")
	case <-shutdownCtx.Done():
		logger.Error("msg", "Shutdown timeout exceeded - forcing exit")
		shutdownLogger()
		os.Exit(1)
	}
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			// Best effort - can't log the shutdown error
			stdio.errorf("Logger shutdown error: %v\n", err)
		}
		logger = nil
	}
}
