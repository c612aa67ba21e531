// FILE: evewatch/src/cmd/evewatch/commands/help.go
package commands

import (
	"fmt"
	"io"
	"os"
)

const generalHelpTemplate = `EveWatch: query and summarize Suricata eve JSON logs.

Usage:
  evewatch [command] [options]
  evewatch [options]

Commands:
%s
Service Options:
  -c, --config <path>        Path to configuration file (default: ~/.config/evewatch.toml)
  -q, --quiet                Suppress all console output, including errors
  -v, --version              Display version information and exit
  -h, --help                 Display this help message and exit
  --<section>.<key>=<value>  Override any configuration key, e.g. --http.port=8080

Signals:
  SIGHUP, SIGUSR1            Re-read the eve source and swap the dataset

Configuration Sources (Precedence: CLI > Env > File > Defaults):
  - CLI flags override all other settings
  - EVEWATCH_* environment variables override file settings
  - TOML configuration file is the primary method

Examples:
  # Serve the HTTP API over a compressed eve file
  evewatch --source.path=/var/log/suricata/eve.json.gz

  # Print the second page of alerts
  evewatch query -f eve.json --event-type alert --page 2

For command-specific help:
  evewatch help <command>
  evewatch <command> --help
`

// HelpCommand handles the display of general or command-specific help messages.
type HelpCommand struct {
	router *CommandRouter
	output io.Writer
}

// NewHelpCommand creates a new help command handler.
func NewHelpCommand(router *CommandRouter) *HelpCommand {
	return &HelpCommand{router: router, output: os.Stdout}
}

// Execute displays general help, or the named command's help.
func (c *HelpCommand) Execute(args []string) error {
	if len(args) > 0 {
		handler, exists := c.router.GetCommand(args[0])
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprint(c.output, handler.Help())
		return nil
	}

	fmt.Fprintf(c.output, generalHelpTemplate, c.router.commandList())
	return nil
}

func (c *HelpCommand) Description() string {
	return "Display help information"
}

func (c *HelpCommand) Help() string {
	return `Help Command - Display help information

Usage:
  evewatch help [command]
`
}
