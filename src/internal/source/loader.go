// FILE: evewatch/src/internal/source/loader.go
package source

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"evewatch/src/internal/config"
	"evewatch/src/internal/core"
	"evewatch/src/internal/filter"

	"github.com/lixenwraith/log"
)

// Snapshot is one immutable load of the source. Records are sorted by
// timestamp descending, ties keep input order. Never modify Records.
type Snapshot struct {
	Records     []core.Record
	Source      string
	Compression string
	LoadedAt    time.Time
	Duration    time.Duration

	Lines     uint64 // non-blank lines read
	Malformed uint64 // undecodable or oversized lines
	Filtered  uint64 // lines dropped by the ingest chain

	// Err is set when the source could not be read; Records is then empty
	Err error
}

// Loader reads an eve file once and caches the result until Reload.
// Concurrent first callers share a single read.
type Loader struct {
	path         string
	compression  string
	maxLineBytes int

	decoder *Decoder
	chain   *filter.Chain
	logger  *log.Logger

	mu       sync.Mutex
	snapshot atomic.Pointer[Snapshot]

	// Statistics
	totalLoads  atomic.Uint64
	failedLoads atomic.Uint64
}

// NewLoader creates a loader for the configured source
func NewLoader(cfg config.SourceConfig, logger *log.Logger) (*Loader, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}

	var chain *filter.Chain
	if len(cfg.Filters) > 0 {
		var err error
		chain, err = filter.NewChain(cfg.Filters, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create ingest filter chain: %w", err)
		}
	}

	maxLine := int(cfg.MaxLineBytes)
	if maxLine <= 0 {
		maxLine = core.DefaultMaxLineBytes
	}

	return &Loader{
		path:         cfg.Path,
		compression:  cfg.Compression,
		maxLineBytes: maxLine,
		decoder:      NewDecoder(),
		chain:        chain,
		logger:       logger,
	}, nil
}

// Path returns the source identity
func (l *Loader) Path() string {
	return l.path
}

// Load returns the cached snapshot, reading the source on first use
func (l *Loader) Load() *Snapshot {
	if snap := l.snapshot.Load(); snap != nil {
		return snap
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another caller may have finished the read while we waited
	if snap := l.snapshot.Load(); snap != nil {
		return snap
	}

	snap := l.read()
	l.snapshot.Store(snap)
	return snap
}

// Records returns the cached, sorted record collection
func (l *Loader) Records() []core.Record {
	return l.Load().Records
}

// Reload re-reads the source and atomically replaces the cached snapshot.
// Callers holding the previous snapshot keep a consistent view.
func (l *Loader) Reload() *Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := l.read()
	old := l.snapshot.Swap(snap)

	if old != nil {
		l.logger.Info("msg", "Dataset reloaded",
			"component", "loader",
			"path", l.path,
			"previous_records", len(old.Records),
			"records", len(snap.Records))
	}
	return snap
}

// Loaded reports whether the cache has been populated
func (l *Loader) Loaded() bool {
	return l.snapshot.Load() != nil
}

func (l *Loader) read() *Snapshot {
	start := time.Now()
	l.totalLoads.Add(1)

	snap := &Snapshot{
		Records: make([]core.Record, 0),
		Source:  l.path,
	}

	rc, compression, err := OpenSource(l.path, l.compression)
	if err != nil {
		l.failedLoads.Add(1)
		snap.Err = err
		snap.LoadedAt = time.Now()
		snap.Duration = time.Since(start)
		l.logger.Warn("msg", "Source unreadable, serving empty dataset",
			"component", "loader",
			"path", l.path,
			"error", err)
		return snap
	}
	defer rc.Close()
	snap.Compression = compression

	if err := l.decodeStream(rc, snap); err != nil {
		// Keep what was decoded before the stream broke
		l.failedLoads.Add(1)
		snap.Err = err
		l.logger.Warn("msg", "Source read interrupted",
			"component", "loader",
			"path", l.path,
			"records", len(snap.Records),
			"error", err)
	}

	SortDescending(snap.Records)

	snap.LoadedAt = time.Now()
	snap.Duration = time.Since(start)

	l.logger.Info("msg", "Dataset loaded",
		"component", "loader",
		"path", l.path,
		"compression", compression,
		"lines", snap.Lines,
		"records", len(snap.Records),
		"malformed", snap.Malformed,
		"filtered", snap.Filtered,
		"duration_ms", snap.Duration.Milliseconds())

	return snap
}

func (l *Loader) decodeStream(r io.Reader, snap *Snapshot) error {
	return scanLines(r, l.maxLineBytes, func(line []byte, oversized bool) {
		snap.Lines++

		if oversized {
			snap.Malformed++
			l.logger.Debug("msg", "Dropping oversized line",
				"component", "loader",
				"line", snap.Lines,
				"max_line_bytes", l.maxLineBytes)
			return
		}

		if !l.chain.Apply(line) {
			snap.Filtered++
			return
		}

		record, err := l.decoder.Decode(line)
		if err != nil {
			snap.Malformed++
			l.logger.Debug("msg", "Dropping malformed line",
				"component", "loader",
				"line", snap.Lines,
				"error", err)
			return
		}
		snap.Records = append(snap.Records, record)
	})
}

// SortDescending orders records newest first; equal timestamps keep their order
func SortDescending(records []core.Record) {
	slices.SortStableFunc(records, func(a, b core.Record) int {
		return b.Time.Compare(a.Time)
	})
}

// GetStats returns loader statistics
func (l *Loader) GetStats() map[string]any {
	stats := map[string]any{
		"path":         l.path,
		"compression":  l.compression,
		"loaded":       false,
		"total_loads":  l.totalLoads.Load(),
		"failed_loads": l.failedLoads.Load(),
		"filters":      l.chain.GetStats(),
	}

	snap := l.snapshot.Load()
	if snap == nil {
		return stats
	}

	stats["loaded"] = true
	stats["records"] = len(snap.Records)
	stats["lines"] = snap.Lines
	stats["malformed"] = snap.Malformed
	stats["filtered"] = snap.Filtered
	stats["loaded_at"] = snap.LoadedAt
	stats["load_duration_ms"] = snap.Duration.Milliseconds()
	if snap.Compression != "" {
		stats["compression"] = snap.Compression
	}
	if snap.Err != nil {
		stats["last_error"] = snap.Err.Error()
	}
	return stats
}
