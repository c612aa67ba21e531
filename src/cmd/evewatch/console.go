// FILE: evewatch/src/cmd/evewatch/console.go
package main

import (
	"fmt"
	"io"
	"os"

	"evewatch/src/internal/config"
	"evewatch/src/internal/server"
)

// console carries operator messages that are not log records: the startup
// banner and fatal errors. Quiet mode silences it.
type console struct {
	quiet bool
	out   io.Writer
	err   io.Writer
}

var stdio = &console{out: os.Stdout, err: os.Stderr}

func (c *console) printf(format string, args ...any) {
	if !c.quiet {
		fmt.Fprintf(c.out, format, args...)
	}
}

func (c *console) errorf(format string, args ...any) {
	if !c.quiet {
		fmt.Fprintf(c.err, format, args...)
	}
}

func (c *console) fatalf(code int, format string, args ...any) {
	c.errorf(format, args...)
	os.Exit(code)
}

// endpoints prints where the listeners can be reached
func (c *console) endpoints(cfg *config.Config) {
	if cfg.HTTP.Enabled {
		base := fmt.Sprintf("http://%s:%d", displayHost(cfg.HTTP.Host), cfg.HTTP.Port)
		c.printf("HTTP API listening on %s\n", base)
		c.printf("  Query:    %s%s%s\n", base, cfg.HTTP.APIPrefix, server.PathLogs)
		c.printf("  Stats:    %s%s%s\n", base, cfg.HTTP.APIPrefix, server.PathStats)
		c.printf("  Traffic:  %s%s%s\n", base, cfg.HTTP.APIPrefix, server.PathTraffic)
		c.printf("  Analyze:  %s%s%s\n", base, cfg.HTTP.APIPrefix, server.PathAnalyze)
		c.printf("  Status:   %s%s\n", base, cfg.HTTP.StatusPath)
	}
	if cfg.TCP.Enabled {
		c.printf("TCP query listener on %s:%d\n", displayHost(cfg.TCP.Host), cfg.TCP.Port)
	}
	if !cfg.HTTP.Enabled && !cfg.TCP.Enabled {
		c.printf("No listeners enabled; send SIGINT to exit\n")
	}
}

func displayHost(host string) string {
	if host == "" || host == "0.0.0.0" {
		return "localhost"
	}
	return host
}
