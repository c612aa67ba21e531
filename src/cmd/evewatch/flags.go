// FILE: evewatch/src/cmd/evewatch/flags.go
package main

import (
	"fmt"
	"strings"
)

// FlagConfig holds the flags handled before configuration loading
type FlagConfig struct {
	ConfigFile  string
	Quiet       bool
	ShowVersion bool
}

// parseFlags extracts the process-level flags. Everything else is returned
// untouched for the config builder, which owns --<section>.<key> overrides.
func parseFlags(args []string) (*FlagConfig, []string, error) {
	flagCfg := &FlagConfig{}
	rest := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")

		switch name {
		case "-c", "--config", "-config":
			if !hasValue {
				if i+1 >= len(args) {
					return nil, nil, fmt.Errorf("%s requires a path", name)
				}
				i++
				value = args[i]
			}
			if value == "" {
				return nil, nil, fmt.Errorf("%s requires a path", name)
			}
			flagCfg.ConfigFile = value

		case "-q", "--quiet":
			flagCfg.Quiet = !hasValue || value == "true"

		case "-v", "--version":
			flagCfg.ShowVersion = true

		default:
			rest = append(rest, arg)
		}
	}

	return flagCfg, rest, nil
}
