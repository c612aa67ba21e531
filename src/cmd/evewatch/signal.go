// FILE: evewatch/src/cmd/evewatch/signal.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"evewatch/src/internal/source"

	"github.com/lixenwraith/log"
)

// Reloader swaps the dataset on request
type Reloader interface {
	Reload() *source.Snapshot
}

// Manages OS signals
type SignalHandler struct {
	reloader Reloader
	logger   *log.Logger
	sigChan  chan os.Signal
}

// Creates a signal handler
func NewSignalHandler(r Reloader, logger *log.Logger) *SignalHandler {
	sh := &SignalHandler{
		reloader: r,
		logger:   logger,
		sigChan:  make(chan os.Signal, 1),
	}

	signal.Notify(sh.sigChan,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,  // Traditional reload signal
		syscall.SIGUSR1, // Alternative reload signal
	)

	return sh
}

// Handle blocks until a termination signal arrives; reload signals re-read the source
func (sh *SignalHandler) Handle(ctx context.Context) os.Signal {
	for {
		select {
		case sig := <-sh.sigChan:
			switch sig {
			case syscall.SIGHUP, syscall.SIGUSR1:
				sh.logger.Info("msg", "Reload signal received",
					"component", "signal_handler",
					"signal", sig.String())
				go sh.reload()
			default:
				return sig
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (sh *SignalHandler) reload() {
	snap := sh.reloader.Reload()
	sh.logger.Info("msg", "Dataset reload finished",
		"component", "signal_handler",
		"records", len(snap.Records),
		"malformed", snap.Malformed,
		"ok", snap.Err == nil)
}

// Cleans up signal handling
func (sh *SignalHandler) Stop() {
	signal.Stop(sh.sigChan)
}
