// FILE: evewatch/src/internal/filter/chain_test.go
package filter

import (
	"testing"

	"evewatch/src/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestNewChain(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success", func(t *testing.T) {
		configs := []config.FilterConfig{
			{Type: config.FilterTypeInclude, Patterns: []string{"alert"}},
			{Type: config.FilterTypeExclude, Patterns: []string{"stats"}},
		}
		chain, err := NewChain(configs, logger)
		assert.NoError(t, err)
		assert.NotNil(t, chain)
		assert.Equal(t, 2, chain.Len())
	})

	t.Run("ErrorInvalidRegexInChain", func(t *testing.T) {
		configs := []config.FilterConfig{
			{Patterns: []string{"alert"}},
			{Patterns: []string{"["}},
		}
		chain, err := NewChain(configs, logger)
		assert.Error(t, err)
		assert.Nil(t, chain)
		assert.Contains(t, err.Error(), "filter[1]")
	})
}

func TestChain_Apply(t *testing.T) {
	logger := newTestLogger()
	line := []byte(`{"event_type":"alert","alert":{"signature":"ET SCAN"}}`)

	t.Run("NilChain", func(t *testing.T) {
		var chain *Chain
		assert.True(t, chain.Apply(line))
		assert.Equal(t, 0, chain.Len())
	})

	t.Run("EmptyChain", func(t *testing.T) {
		chain, err := NewChain([]config.FilterConfig{}, logger)
		assert.NoError(t, err)
		assert.True(t, chain.Apply(line))
	})

	t.Run("AllFiltersPass", func(t *testing.T) {
		configs := []config.FilterConfig{
			{Type: config.FilterTypeInclude, Patterns: []string{"alert"}},
			{Type: config.FilterTypeInclude, Patterns: []string{"SCAN"}},
			{Type: config.FilterTypeExclude, Patterns: []string{"stats"}},
		}
		chain, err := NewChain(configs, logger)
		assert.NoError(t, err)
		assert.True(t, chain.Apply(line))

		stats := chain.GetStats()
		assert.Equal(t, uint64(1), stats["total_passed"])
	})

	t.Run("OneFilterFails", func(t *testing.T) {
		configs := []config.FilterConfig{
			{Type: config.FilterTypeInclude, Patterns: []string{"alert"}},
			{Type: config.FilterTypeExclude, Patterns: []string{"SCAN"}},
		}
		chain, err := NewChain(configs, logger)
		assert.NoError(t, err)
		assert.False(t, chain.Apply(line))
	})
}
