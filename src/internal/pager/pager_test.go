// FILE: evewatch/src/internal/pager/pager_test.go
package pager

import (
	"fmt"
	"math"
	"testing"

	"evewatch/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecords(n int) []core.Record {
	records := make([]core.Record, n)
	for i := range records {
		records[i] = core.Record{Timestamp: fmt.Sprintf("r%02d", i), EventType: "flow"}
	}
	return records
}

func TestPaginate(t *testing.T) {
	records := makeRecords(45)

	testCases := []struct {
		name       string
		page       int
		pageSize   int
		wantPage   int
		wantSize   int
		wantLen    int
		wantFirst  string
		totalPages int
	}{
		{name: "FirstPage", page: 1, pageSize: 20, wantPage: 1, wantSize: 20, wantLen: 20, wantFirst: "r00", totalPages: 3},
		{name: "LastPartialPage", page: 3, pageSize: 20, wantPage: 3, wantSize: 20, wantLen: 5, wantFirst: "r40", totalPages: 3},
		{name: "BeyondLastPage", page: 4, pageSize: 20, wantPage: 4, wantSize: 20, wantLen: 0, totalPages: 3},
		{name: "HugePage", page: math.MaxInt, pageSize: 20, wantPage: math.MaxInt, wantSize: 20, wantLen: 0, totalPages: 3},
		{name: "ZeroPageClamped", page: 0, pageSize: 20, wantPage: 1, wantSize: 20, wantLen: 20, wantFirst: "r00", totalPages: 3},
		{name: "DefaultSize", page: 1, pageSize: 0, wantPage: 1, wantSize: 20, wantLen: 20, wantFirst: "r00", totalPages: 3},
		{name: "SizeLargerThanTotal", page: 1, pageSize: 100, wantPage: 1, wantSize: 100, wantLen: 45, wantFirst: "r00", totalPages: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := Paginate(records, tc.page, tc.pageSize)
			assert.Equal(t, 45, p.Total)
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantSize, p.PageSize)
			assert.Equal(t, tc.totalPages, p.TotalPages)
			require.NotNil(t, p.Data)
			require.Len(t, p.Data, tc.wantLen)
			if tc.wantFirst != "" {
				assert.Equal(t, tc.wantFirst, p.Data[0].Timestamp)
			}
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate(nil, 1, 20)
	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 0, p.TotalPages)
	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
}

func TestPaginate_PagesPartitionInput(t *testing.T) {
	for _, size := range []int{1, 3, 7, 10, 11} {
		records := makeRecords(10)
		seen := make([]string, 0, len(records))

		first := Paginate(records, 1, size)
		for page := 1; page <= first.TotalPages; page++ {
			for _, r := range Paginate(records, page, size).Data {
				seen = append(seen, r.Timestamp)
			}
		}

		expected := make([]string, 0, len(records))
		for _, r := range records {
			expected = append(expected, r.Timestamp)
		}
		assert.Equal(t, expected, seen, "page size %d", size)
	}
}

func TestPaginate_DataIsCapacityClipped(t *testing.T) {
	records := makeRecords(5)
	p := Paginate(records, 1, 2)

	// Appending to a page must not write into the next page's records
	_ = append(p.Data, core.Record{Timestamp: "intruder"})
	assert.Equal(t, "r02", records[2].Timestamp)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(1, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 0, TotalPages(5, 0))
}
