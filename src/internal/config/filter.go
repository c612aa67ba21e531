// FILE: evewatch/src/internal/config/filter.go
package config

import (
	"fmt"
	"regexp"
)

// FilterType represents the filter type
type FilterType string

const (
	FilterTypeInclude FilterType = "include" // Whitelist - only matching lines pass
	FilterTypeExclude FilterType = "exclude" // Blacklist - matching lines are dropped
)

// FilterLogic represents how multiple patterns are combined
type FilterLogic string

const (
	FilterLogicOr  FilterLogic = "or"  // Match any pattern
	FilterLogicAnd FilterLogic = "and" // Match all patterns
)

// FilterConfig represents ingest filter configuration
type FilterConfig struct {
	Type     FilterType  `toml:"type"`
	Logic    FilterLogic `toml:"logic"`
	Patterns []string    `toml:"patterns"`
}

func validateFilter(filterIndex int, cfg *FilterConfig) error {
	switch cfg.Type {
	case FilterTypeInclude, FilterTypeExclude, "":
	default:
		return fmt.Errorf("source filter[%d]: invalid type '%s' (must be 'include' or 'exclude')",
			filterIndex, cfg.Type)
	}

	switch cfg.Logic {
	case FilterLogicOr, FilterLogicAnd, "":
	default:
		return fmt.Errorf("source filter[%d]: invalid logic '%s' (must be 'or' or 'and')",
			filterIndex, cfg.Logic)
	}

	// Empty patterns is valid - passes everything
	for i, pattern := range cfg.Patterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("source filter[%d] pattern[%d] '%s': invalid regex: %w",
				filterIndex, i, pattern, err)
		}
	}

	return nil
}
