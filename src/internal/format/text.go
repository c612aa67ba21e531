// FILE: evewatch/src/internal/format/text.go
package format

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"evewatch/src/internal/core"

	"github.com/lixenwraith/log"
)

const (
	DefaultTextTemplate    = "[{{FmtTime .Time}}] {{ToUpper .EventType}} {{.Src}} -> {{.Dest}}{{if .Detail}} {{.Detail}}{{end}}"
	DefaultTimestampFormat = time.RFC3339
)

// TextFormatter produces human-readable record lines using templates
type TextFormatter struct {
	timestampFormat string
	template        *template.Template
	logger          *log.Logger
}

// NewTextFormatter creates a new text formatter.
// Options: "template" and "timestamp_format" (strings).
func NewTextFormatter(options map[string]any, logger *log.Logger) (*TextFormatter, error) {
	f := &TextFormatter{
		timestampFormat: stringOption(options, "timestamp_format", DefaultTimestampFormat),
		logger:          logger,
	}

	funcMap := template.FuncMap{
		"FmtTime": func(t time.Time) string {
			return t.Format(f.timestampFormat)
		},
		"ToUpper":   strings.ToUpper,
		"ToLower":   strings.ToLower,
		"TrimSpace": strings.TrimSpace,
	}

	tmpl, err := template.New("record").Funcs(funcMap).Parse(stringOption(options, "template", DefaultTextTemplate))
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	f.template = tmpl
	return f, nil
}

// Format renders the record using the template
func (f *TextFormatter) Format(record core.Record) ([]byte, error) {
	data := map[string]any{
		"Time":      record.Time,
		"Timestamp": record.Timestamp,
		"EventType": record.EventType,
		"Proto":     record.Proto,
		"Src":       endpoint(record.SrcIP, record.SrcPort),
		"Dest":      endpoint(record.DestIP, record.DestPort),
		"Detail":    detail(&record),
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		f.logger.Debug("msg", "Template execution failed, using fallback",
			"component", "text_formatter",
			"error", err)

		fallback := fmt.Sprintf("[%s] %s %s -> %s\n",
			record.Time.Format(f.timestampFormat),
			strings.ToUpper(record.EventType),
			data["Src"],
			data["Dest"])
		return []byte(fallback), nil
	}

	result := buf.Bytes()
	if len(result) == 0 || result[len(result)-1] != '\n' {
		result = append(result, '\n')
	}

	return result, nil
}

// Name returns the formatter name
func (f *TextFormatter) Name() string {
	return "txt"
}

func endpoint(ip string, port *int) string {
	if ip == "" {
		ip = "-"
	}
	if port == nil {
		return ip
	}
	if strings.Contains(ip, ":") {
		return "[" + ip + "]:" + strconv.Itoa(*port)
	}
	return ip + ":" + strconv.Itoa(*port)
}

// detail picks the most telling sub-record field for one-line display
func detail(r *core.Record) string {
	switch {
	case r.Alert != nil:
		return fmt.Sprintf("sev=%d %q", r.Alert.Severity, r.Alert.Signature)
	case r.TLS != nil:
		if r.TLS.SNI != "" {
			return r.TLS.Version + " sni=" + r.TLS.SNI
		}
		return r.TLS.Version
	case r.QUIC != nil:
		if r.QUIC.SNI != "" {
			return "quic " + r.QUIC.Version + " sni=" + r.QUIC.SNI
		}
		return "quic " + r.QUIC.Version
	case r.DNS != nil:
		return strings.TrimSpace(r.DNS.Type + " " + r.DNS.RRName)
	}
	return ""
}
