// FILE: evewatch/src/internal/analysis/tally.go
package analysis

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
)

// RankedItem is a key with its occurrence count
type RankedItem struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Ranking is an ordered list of counts. It marshals to a JSON object whose
// key order matches the ranking order.
type Ranking []RankedItem

// MarshalJSON writes {"key": count, ...} preserving order
func (r Ranking) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(strconv.AppendInt(nil, int64(item.Count), 10))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Map returns the ranking as a plain map
func (r Ranking) Map() map[string]int {
	m := make(map[string]int, len(r))
	for _, item := range r {
		m[item.Key] = item.Count
	}
	return m
}

// Tally counts string occurrences and remembers first-seen order
type Tally struct {
	index map[string]int
	items []RankedItem
	total int
}

// NewTally creates an empty tally
func NewTally() *Tally {
	return &Tally{index: make(map[string]int)}
}

// Add counts one occurrence of key. Empty keys are ignored.
func (t *Tally) Add(key string) {
	if key == "" {
		return
	}
	t.total++
	if i, ok := t.index[key]; ok {
		t.items[i].Count++
		return
	}
	t.index[key] = len(t.items)
	t.items = append(t.items, RankedItem{Key: key, Count: 1})
}

// Count returns the occurrences of key
func (t *Tally) Count(key string) int {
	if i, ok := t.index[key]; ok {
		return t.items[i].Count
	}
	return 0
}

// Len returns the number of distinct keys
func (t *Tally) Len() int {
	return len(t.items)
}

// Total returns the number of counted occurrences
func (t *Tally) Total() int {
	return t.total
}

// All returns every key in first-seen order
func (t *Tally) All() Ranking {
	return slices.Clone(Ranking(t.items))
}

// Top returns the n most frequent keys, ties broken by first-seen order.
// n <= 0 returns every key ranked.
func (t *Tally) Top(n int) Ranking {
	ranked := slices.Clone(Ranking(t.items))
	slices.SortStableFunc(ranked, func(a, b RankedItem) int {
		return b.Count - a.Count
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
