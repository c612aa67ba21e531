// FILE: evewatch/src/cmd/evewatch/commands/stats.go
package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// StatsCommand prints the headline statistics
type StatsCommand struct {
	output io.Writer
	errOut io.Writer
}

// NewStatsCommand creates a new stats command
func NewStatsCommand() *StatsCommand {
	return &StatsCommand{output: os.Stdout, errOut: os.Stderr}
}

func (c *StatsCommand) Execute(args []string) error {
	cmd := flag.NewFlagSet("stats", flag.ContinueOnError)
	cmd.SetOutput(c.errOut)

	var ds datasetFlags
	ds.register(cmd)
	traffic := cmd.Bool("traffic", false, "Include the traffic breakdown")

	cmd.Usage = func() {
		fmt.Fprint(c.errOut, c.Help())
	}
	if err := cmd.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	outFormat, err := resolveFormat(ds.format, c.output)
	if err != nil {
		return err
	}

	sess, err := openSession(&ds)
	if err != nil {
		return err
	}
	defer sess.close()

	stats := sess.engine.Stats()

	if outFormat != formatText {
		if *traffic {
			return writeJSON(c.output, map[string]any{
				"stats":   stats,
				"traffic": sess.engine.Traffic(),
			})
		}
		return writeJSON(c.output, stats)
	}

	fmt.Fprintf(c.output, "Total events:     %d\n", stats.TotalEvents)
	fmt.Fprintf(c.output, "Unique IPs:       %d\n", stats.UniqueIPs)
	fmt.Fprintf(c.output, "Top TLS version:  %s\n", stats.TopTLSVersion)
	fmt.Fprintf(c.output, "TLS traffic:      %d%%\n", stats.TLSTrafficPercentage)

	if *traffic {
		t := sess.engine.Traffic()
		fmt.Fprintln(c.output)
		writeRanking(c.output, "Event types", t.EventTypes)
		writeRanking(c.output, "TLS versions", t.TLSVersions)
		writeRanking(c.output, "Top SNI", t.TopSNI)
		writeRanking(c.output, "Top JA3", t.TopJA3)
		writeRanking(c.output, "Alert categories", t.AlertCategories)
		writeRanking(c.output, "Protocols", t.Protocols)
	}
	return nil
}

func (c *StatsCommand) Description() string {
	return "Print headline statistics for an eve file"
}

func (c *StatsCommand) Help() string {
	return `Stats Command - Print headline statistics for an eve file

Usage:
  evewatch stats [options]

Options:
  -f, --file <path>   Eve file to read (default: source.path from config)
  --config <path>     Config file path
  --format <fmt>      auto, json or txt
  --traffic           Include event type, TLS version, SNI and JA3 distributions
  --verbose           Log loader diagnostics to stderr
`
}
