// FILE: evewatch/src/internal/format/raw_test.go
package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawFormatter_Format(t *testing.T) {
	logger := newTestLogger()
	formatter, err := NewRawFormatter(nil, logger)
	require.NoError(t, err)

	record := testRecord()
	record.Raw = []byte(`{"timestamp":"x","event_type":"tls"}`)

	output, err := formatter.Format(record)
	require.NoError(t, err)
	assert.Equal(t, "{\"timestamp\":\"x\",\"event_type\":\"tls\"}\n", string(output))

	// Raw buffer must not be extended in place
	assert.Equal(t, `{"timestamp":"x","event_type":"tls"}`, string(record.Raw))

	record.Raw = nil
	output, err = formatter.Format(record)
	require.NoError(t, err)
	assert.Contains(t, string(output), `"event_type":"tls"`)
}
