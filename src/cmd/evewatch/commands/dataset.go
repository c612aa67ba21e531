// FILE: evewatch/src/cmd/evewatch/commands/dataset.go
package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"evewatch/src/internal/analysis"
	"evewatch/src/internal/config"
	"evewatch/src/internal/engine"
	"evewatch/src/internal/source"

	"github.com/lixenwraith/log"
	"golang.org/x/term"
)

// Output formats for the one-shot commands
const (
	formatAuto = "auto"
	formatJSON = "json"
	formatText = "txt"
	formatRaw  = "raw"
)

// datasetFlags are shared by the commands that run the engine once
type datasetFlags struct {
	file       string
	configFile string
	format     string
	verbose    bool
}

func (d *datasetFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&d.file, "f", "", "Eve file to read (overrides source.path)")
	fs.StringVar(&d.file, "file", "", "Eve file to read (overrides source.path)")
	fs.StringVar(&d.configFile, "config", "", "Config file path")
	fs.StringVar(&d.format, "format", formatAuto, "Output format: auto, json, txt")
	fs.BoolVar(&d.verbose, "verbose", false, "Log loader diagnostics to stderr")
}

// session is one engine run over a dataset
type session struct {
	engine *engine.Engine
	logger *log.Logger
}

func (s *session) close() {
	_ = s.logger.Shutdown(time.Second)
}

// openSession loads configuration and builds an engine over the source
func openSession(d *datasetFlags) (*session, error) {
	if d.configFile != "" {
		if _, err := os.Stat(d.configFile); err != nil {
			return nil, fmt.Errorf("config file not found: %s", d.configFile)
		}
		os.Setenv("EVEWATCH_CONFIG_FILE", d.configFile)
	}

	cfg, err := config.Load(nil)
	if err != nil {
		return nil, err
	}
	if d.file != "" {
		cfg.Source.Path = d.file
	}

	logger, err := newCommandLogger(d.verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loader, err := source.NewLoader(cfg.Source, logger)
	if err != nil {
		_ = logger.Shutdown(time.Second)
		return nil, err
	}

	return &session{
		engine: engine.New(loader, cfg.Query, analysis.OptionsFromConfig(cfg.Analysis), logger),
		logger: logger,
	}, nil
}

// newCommandLogger logs warnings to stderr, or everything with verbose
func newCommandLogger(verbose bool) (*log.Logger, error) {
	logCfg := &config.LogConfig{Output: config.LogOutputStderr, Level: "warn"}
	if verbose {
		logCfg.Level = "debug"
	}
	args, err := logCfg.InitArgs()
	if err != nil {
		return nil, err
	}

	logger := log.NewLogger()
	return logger, logger.InitWithDefaults(args...)
}

// resolveFormat turns "auto" into text on a terminal and JSON otherwise
func resolveFormat(format string, w io.Writer) (string, error) {
	switch format {
	case "", formatAuto:
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return formatText, nil
		}
		return formatJSON, nil
	case formatJSON, formatText, "text", formatRaw:
		if format == "text" {
			return formatText, nil
		}
		return format, nil
	default:
		return "", fmt.Errorf("unknown format: %s (valid: auto, json, txt, raw)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeRanking(w io.Writer, title string, ranking analysis.Ranking) {
	fmt.Fprintf(w, "%s:\n", title)
	if len(ranking) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, item := range ranking {
		fmt.Fprintf(w, "  %-40s %d\n", item.Key, item.Count)
	}
}
