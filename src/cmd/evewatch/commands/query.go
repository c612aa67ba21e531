// FILE: evewatch/src/cmd/evewatch/commands/query.go
package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"evewatch/src/internal/engine"
	"evewatch/src/internal/filter"
	"evewatch/src/internal/format"
)

// QueryCommand prints one filtered page of records
type QueryCommand struct {
	output io.Writer
	errOut io.Writer
}

// NewQueryCommand creates a new query command
func NewQueryCommand() *QueryCommand {
	return &QueryCommand{output: os.Stdout, errOut: os.Stderr}
}

func (c *QueryCommand) Execute(args []string) error {
	cmd := flag.NewFlagSet("query", flag.ContinueOnError)
	cmd.SetOutput(c.errOut)

	var ds datasetFlags
	ds.register(cmd)

	var (
		page       = cmd.Int("page", 1, "Page number (1-based)")
		pageSize   = cmd.Int("page-size", 0, "Records per page (default from config)")
		eventType  = cmd.String("event-type", "", "Exact event_type")
		tlsVersion = cmd.String("tls-version", "", "Exact tls.version")
		sourceIP   = cmd.String("source-ip", "", "Substring of src_ip")
		destIP     = cmd.String("dest-ip", "", "Substring of dest_ip")
		dateFrom   = cmd.String("date-from", "", "Earliest timestamp, inclusive")
		dateTo     = cmd.String("date-to", "", "Latest timestamp, inclusive")
	)

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

	params := map[string]string{
		engine.ParamPage:       strconv.Itoa(*page),
		filter.ParamEventType:  *eventType,
		filter.ParamTLSVersion: *tlsVersion,
		filter.ParamSourceIP:   *sourceIP,
		filter.ParamDestIP:     *destIP,
		filter.ParamDateFrom:   *dateFrom,
		filter.ParamDateTo:     *dateTo,
	}
	if *pageSize > 0 {
		params[engine.ParamPageSize] = strconv.Itoa(*pageSize)
	}

	sess, err := openSession(&ds)
	if err != nil {
		return err
	}
	defer sess.close()

	result, err := sess.engine.QueryParams(filter.FromMap(params))
	if err != nil {
		return err
	}

	if outFormat == formatJSON {
		return writeJSON(c.output, result)
	}

	formatter, err := format.NewFormatter(outFormat, nil, sess.logger)
	if err != nil {
		return err
	}
	for _, record := range result.Data {
		line, err := formatter.Format(record)
		if err != nil {
			return err
		}
		if _, err := c.output.Write(line); err != nil {
			return err
		}
	}

	if outFormat == formatText {
		fmt.Fprintf(c.output, "-- page %d of %d, %d matching records --\n",
			result.Page, result.TotalPages, result.Total)
	}
	return nil
}

func (c *QueryCommand) Description() string {
	return "Print a filtered page of eve records"
}

func (c *QueryCommand) Help() string {
	return `Query Command - Print a filtered page of eve records

Usage:
  evewatch query [options]

Options:
  -f, --file <path>        Eve file to read (default: source.path from config)
  --config <path>          Config file path
  --format <fmt>           auto, json, txt or raw (auto: txt on a terminal, json otherwise)
  --page <n>               Page number, 1-based (default: 1)
  --page-size <n>          Records per page (default: query.default_page_size)
  --event-type <type>      Exact event_type, "all" for any
  --tls-version <ver>      Exact tls.version, e.g. "TLS 1.2"
  --source-ip <text>       Substring of src_ip
  --dest-ip <text>         Substring of dest_ip
  --date-from <time>       Earliest timestamp, inclusive (RFC 3339 or YYYY-MM-DD)
  --date-to <time>         Latest timestamp, inclusive
  --verbose                Log loader diagnostics to stderr

Examples:
  evewatch query -f eve.json --event-type alert --page-size 50
  evewatch query -f eve.json.zst --source-ip 10.0. --format raw
`
}
