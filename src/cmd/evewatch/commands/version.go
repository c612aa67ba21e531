// FILE: evewatch/src/cmd/evewatch/commands/version.go
package commands

import (
	"fmt"
	"io"
	"os"

	"evewatch/src/internal/version"
)

// VersionCommand handles version display
type VersionCommand struct {
	output io.Writer
}

// NewVersionCommand creates a new version command
func NewVersionCommand() *VersionCommand {
	return &VersionCommand{output: os.Stdout}
}

func (c *VersionCommand) Execute(args []string) error {
	fmt.Fprintln(c.output, version.String())
	return nil
}

func (c *VersionCommand) Description() string {
	return "Show version information"
}

func (c *VersionCommand) Help() string {
	return `Version Command - Show EveWatch version information

Usage:
  evewatch version
  evewatch -v
  evewatch --version
`
}
