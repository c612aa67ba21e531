// FILE: evewatch/src/cmd/evewatch/commands/router.go
package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// Handler defines the interface required for all subcommands.
type Handler interface {
	Execute(args []string) error
	Description() string
	Help() string
}

// CommandRouter handles the routing of CLI arguments to the appropriate subcommand handler.
type CommandRouter struct {
	commands map[string]Handler
	output   io.Writer
}

// NewCommandRouter creates and initializes the command router with all available commands.
func NewCommandRouter() *CommandRouter {
	router := &CommandRouter{
		commands: make(map[string]Handler),
		output:   os.Stdout,
	}

	router.commands["query"] = NewQueryCommand()
	router.commands["stats"] = NewStatsCommand()
	router.commands["summary"] = NewSummaryCommand()
	router.commands["version"] = NewVersionCommand()
	router.commands["help"] = NewHelpCommand(router)

	return router
}

// Route checks for and executes a subcommand based on the provided CLI arguments.
// The first return value reports whether a subcommand handled the invocation.
func (r *CommandRouter) Route(args []string) (bool, error) {
	if len(args) < 2 {
		return false, nil // No command specified, let main app continue
	}

	cmdName := args[1]

	for _, arg := range args[1:] {
		if arg == "-h" || arg == "--help" {
			if handler, exists := r.commands[cmdName]; exists && cmdName != "help" {
				fmt.Fprint(r.output, handler.Help())
				return true, nil
			}
			return true, r.commands["help"].Execute(nil)
		}
	}

	handler, exists := r.commands[cmdName]
	if !exists {
		// Flags belong to the service
		if cmdName == "" || cmdName[0] == '-' {
			return false, nil
		}
		return true, fmt.Errorf("unknown command: %s\n\nRun 'evewatch help' for usage", cmdName)
	}

	return true, handler.Execute(args[2:])
}

// GetCommand returns a specific command handler by its name.
func (r *CommandRouter) GetCommand(name string) (Handler, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// commandList renders the registered commands sorted by name
func (r *CommandRouter) commandList() string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var list string
	for _, name := range names {
		list += fmt.Sprintf("  %-10s %s\n", name, r.commands[name].Description())
	}
	return list
}
