// FILE: evewatch/src/internal/format/format.go
package format

import (
	"fmt"

	"evewatch/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter defines the interface for rendering a Record as bytes.
type Formatter interface {
	// Format renders one record, newline terminated.
	Format(record core.Record) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// NewFormatter creates a Formatter by name. An empty name selects raw.
func NewFormatter(name string, options map[string]any, logger *log.Logger) (Formatter, error) {
	if name == "" {
		name = "raw"
	}

	switch name {
	case "json":
		return NewJSONFormatter(options, logger)
	case "txt", "text":
		return NewTextFormatter(options, logger)
	case "raw":
		return NewRawFormatter(options, logger)
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", name)
	}
}

func stringOption(options map[string]any, key, def string) string {
	if v, ok := options[key].(string); ok && v != "" {
		return v
	}
	return def
}

func boolOption(options map[string]any, key string) bool {
	v, _ := options[key].(bool)
	return v
}
