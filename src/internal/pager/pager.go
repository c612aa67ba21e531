// FILE: evewatch/src/internal/pager/pager.go
package pager

import "evewatch/src/internal/core"

// Page is one slice of an ordered record sequence
type Page struct {
	Data       []core.Record `json:"data"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

// Paginate returns the 1-based page of records. page < 1 is treated as 1 and
// pageSize < 1 as the default size. A page past the end is empty, not an error.
// The returned Data shares the backing array with records and must not be modified.
func Paginate(records []core.Record, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = core.DefaultPageSize
	}

	total := len(records)
	p := Page{
		Data:       []core.Record{},
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}

	// Guard the multiplication against overflow on absurd page numbers
	if page-1 > total/pageSize {
		return p
	}
	start := (page - 1) * pageSize
	if start >= total {
		return p
	}

	end := min(start+pageSize, total)
	p.Data = records[start:end:end]
	return p
}

// TotalPages is ceil(total/pageSize), 0 for an empty sequence
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
