// FILE: evewatch/src/internal/format/raw.go
package format

import (
	"encoding/json"

	"evewatch/src/internal/core"

	"github.com/lixenwraith/log"
)

// RawFormatter outputs the source line as-is with a newline
type RawFormatter struct {
	logger *log.Logger
}

// NewRawFormatter creates a new raw formatter
func NewRawFormatter(options map[string]any, logger *log.Logger) (*RawFormatter, error) {
	return &RawFormatter{
		logger: logger,
	}, nil
}

// Format returns the original line; records built in memory are marshalled
func (f *RawFormatter) Format(record core.Record) ([]byte, error) {
	if len(record.Raw) > 0 {
		out := make([]byte, 0, len(record.Raw)+1)
		out = append(out, record.Raw...)
		return append(out, '\n'), nil
	}

	out, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// Name returns the formatter name
func (f *RawFormatter) Name() string {
	return "raw"
}
