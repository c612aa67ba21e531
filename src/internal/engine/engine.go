// FILE: evewatch/src/internal/engine/engine.go
package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"evewatch/src/internal/advisor"
	"evewatch/src/internal/analysis"
	"evewatch/src/internal/config"
	"evewatch/src/internal/core"
	"evewatch/src/internal/filter"
	"evewatch/src/internal/pager"
	"evewatch/src/internal/source"

	"github.com/lixenwraith/log"
)

// Query parameter names besides the filter criteria
const (
	ParamPage     = "page"
	ParamPageSize = "pageSize"
)

// ErrInvalidParam marks a malformed request parameter
var ErrInvalidParam = errors.New("invalid parameter")

// Engine answers queries over the cached dataset of one loader.
// All operations read an immutable snapshot and are safe for concurrent use.
type Engine struct {
	loader  *source.Loader
	opts    analysis.Options
	advisor *advisor.Advisor
	logger  *log.Logger

	defaultPageSize int
	maxPageSize     int

	// Statistics
	totalQueries    atomic.Uint64
	totalStats      atomic.Uint64
	totalSummaries  atomic.Uint64
	totalTraffic    atomic.Uint64
	totalReloads    atomic.Uint64
	rejectedQueries atomic.Uint64
}

// New creates an engine over the loader
func New(loader *source.Loader, query config.QueryConfig, opts analysis.Options, logger *log.Logger) *Engine {
	e := &Engine{
		loader:          loader,
		opts:            opts,
		advisor:         advisor.New(opts),
		logger:          logger,
		defaultPageSize: int(query.DefaultPageSize),
		maxPageSize:     int(query.MaxPageSize),
	}
	if e.defaultPageSize < 1 {
		e.defaultPageSize = core.DefaultPageSize
	}
	if e.maxPageSize < 1 {
		e.maxPageSize = core.DefaultMaxPageSize
	}
	return e
}

// Snapshot returns the current dataset, loading it on first use
func (e *Engine) Snapshot() *source.Snapshot {
	return e.loader.Load()
}

// Query filters the dataset and returns the requested page.
// pageSize < 1 uses the default; sizes above the maximum are clamped.
func (e *Engine) Query(c filter.Criteria, page, pageSize int) pager.Page {
	e.totalQueries.Add(1)

	if pageSize < 1 {
		pageSize = e.defaultPageSize
	}
	if pageSize > e.maxPageSize {
		pageSize = e.maxPageSize
	}

	matched := filter.Apply(e.loader.Records(), c)
	return pager.Paginate(matched, page, pageSize)
}

// QueryParams parses named string parameters and runs Query
func (e *Engine) QueryParams(get func(key string) string) (pager.Page, error) {
	page, err := intParam(get, ParamPage, 1)
	if err != nil {
		e.rejectedQueries.Add(1)
		return pager.Page{}, err
	}
	pageSize, err := intParam(get, ParamPageSize, e.defaultPageSize)
	if err != nil {
		e.rejectedQueries.Add(1)
		return pager.Page{}, err
	}

	c, err := filter.ParseCriteria(get)
	if err != nil {
		e.rejectedQueries.Add(1)
		return pager.Page{}, fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}

	return e.Query(c, page, pageSize), nil
}

// Stats returns the headline statistics
func (e *Engine) Stats() analysis.Stats {
	e.totalStats.Add(1)
	return analysis.ComputeStats(e.loader.Records(), e.opts)
}

// Summary returns the full analysis with potential attacks and suggestions
func (e *Engine) Summary() analysis.Summary {
	e.totalSummaries.Add(1)
	records := e.loader.Records()
	s := analysis.Summarize(records, e.opts)
	e.advisor.Advise(&s, records)
	return s
}

// Traffic returns the chart distributions
func (e *Engine) Traffic() analysis.Traffic {
	e.totalTraffic.Add(1)
	return analysis.ComputeTraffic(e.loader.Records(), e.opts)
}

// Reload re-reads the source and swaps the dataset
func (e *Engine) Reload() *source.Snapshot {
	e.totalReloads.Add(1)
	return e.loader.Reload()
}

// GetStats returns engine and loader statistics
func (e *Engine) GetStats() map[string]any {
	return map[string]any{
		"queries":          e.totalQueries.Load(),
		"rejected_queries": e.rejectedQueries.Load(),
		"stats":            e.totalStats.Load(),
		"summaries":        e.totalSummaries.Load(),
		"traffic":          e.totalTraffic.Load(),
		"reloads":          e.totalReloads.Load(),
		"page_size": map[string]int{
			"default": e.defaultPageSize,
			"max":     e.maxPageSize,
		},
		"loader": e.loader.GetStats(),
	}
}

func intParam(get func(string) string, name string, def int) (int, error) {
	v := strings.TrimSpace(get(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidParam, name, v)
	}
	return n, nil
}
