// FILE: evewatch/src/cmd/evewatch/commands/summary.go
package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"evewatch/src/internal/analysis"
)

// SummaryCommand prints the full analysis with threat view and suggestions
type SummaryCommand struct {
	output io.Writer
	errOut io.Writer
}

// NewSummaryCommand creates a new summary command
func NewSummaryCommand() *SummaryCommand {
	return &SummaryCommand{output: os.Stdout, errOut: os.Stderr}
}

func (c *SummaryCommand) Execute(args []string) error {
	cmd := flag.NewFlagSet("summary", flag.ContinueOnError)
	cmd.SetOutput(c.errOut)

	var ds datasetFlags
	ds.register(cmd)

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

	summary := sess.engine.Summary()
	if outFormat != formatText {
		return writeJSON(c.output, summary)
	}

	c.writeText(&summary)
	return nil
}

func (c *SummaryCommand) writeText(s *analysis.Summary) {
	w := c.output

	fmt.Fprintf(w, "Total logs: %d\n", s.TotalLogs)
	if s.TimeRange.Start != nil && s.TimeRange.End != nil {
		fmt.Fprintf(w, "Time range: %s .. %s\n", *s.TimeRange.Start, *s.TimeRange.End)
	}
	fmt.Fprintln(w)

	writeRanking(w, "Top source IPs", s.TopSourceIPs)
	writeRanking(w, "Top destination IPs", s.TopDestinationIPs)
	writeRanking(w, "Alert types", s.AlertTypes)
	writeRanking(w, "Protocols", s.Protocols)
	writeRanking(w, "Ports", s.Ports)

	t := s.ThreatAnalysis
	fmt.Fprintf(w, "\nThreat analysis:\n")
	fmt.Fprintf(w, "  High severity alerts: %d\n", len(t.HighSeverityAlerts))
	for _, a := range t.HighSeverityAlerts {
		fmt.Fprintf(w, "    [%d] %s (%s -> %s)\n", a.Severity, a.Signature, a.SrcIP, a.DestIP)
	}
	fmt.Fprintf(w, "  Suspicious IPs: %d\n", len(t.SuspiciousIPs))
	fmt.Fprintf(w, "  Unusual ports: %v\n", t.UnusualPorts)
	fmt.Fprintf(w, "  Potential attacks: %d\n", len(t.PotentialAttacks))
	for _, a := range t.PotentialAttacks {
		fmt.Fprintf(w, "    %s [%s] (%s -> %s)\n", a.Type, a.Keyword, a.SrcIP, a.DestIP)
	}

	fmt.Fprintf(w, "\nSecurity suggestions:\n")
	if len(s.SecuritySuggestions) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, suggestion := range s.SecuritySuggestions {
		fmt.Fprintf(w, "  - %s\n", suggestion)
	}
}

func (c *SummaryCommand) Description() string {
	return "Print the full analysis of an eve file"
}

func (c *SummaryCommand) Help() string {
	return `Summary Command - Print the full analysis of an eve file

Usage:
  evewatch summary [options]

Includes top talkers, alert types, protocols, ports, the threat view
(high severity alerts, suspicious IPs, unusual ports, potential attacks)
and security suggestions.

Options:
  -f, --file <path>   Eve file to read (default: source.path from config)
  --config <path>     Config file path
  --format <fmt>      auto, json or txt
  --verbose           Log loader diagnostics to stderr
`
}
