// FILE: evewatch/src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"

	"evewatch/src/internal/core"

	"github.com/lixenwraith/log"
)

// JSONFormatter renders records as JSON objects, one per line.
type JSONFormatter struct {
	pretty bool
	logger *log.Logger
}

// NewJSONFormatter creates a new JSON formatter. Options: "pretty" (bool).
func NewJSONFormatter(options map[string]any, logger *log.Logger) (*JSONFormatter, error) {
	return &JSONFormatter{
		pretty: boolOption(options, "pretty"),
		logger: logger,
	}, nil
}

// Format renders the record. Decoded records keep their original fields.
func (f *JSONFormatter) Format(record core.Record) ([]byte, error) {
	result, err := f.marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	return append(result, '\n'), nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// FormatBatch renders records as a single JSON array.
func (f *JSONFormatter) FormatBatch(records []core.Record) ([]byte, error) {
	batch := make([]json.RawMessage, 0, len(records))

	for _, record := range records {
		raw, err := json.Marshal(record)
		if err != nil {
			f.logger.Warn("msg", "Failed to format record in batch",
				"component", "json_formatter",
				"timestamp", record.Timestamp,
				"error", err)
			continue
		}
		batch = append(batch, raw)
	}

	return f.marshal(batch)
}

func (f *JSONFormatter) marshal(v any) ([]byte, error) {
	if f.pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
