// FILE: evewatch/src/internal/service/service_test.go
package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"evewatch/src/internal/config"
	"evewatch/src/internal/filter"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func TestService_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eve.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"timestamp":"2024-01-01T00:00:00Z","event_type":"dns"}`+"\n"), 0o644))

	cfg := config.Default()
	cfg.Source.Path = path
	cfg.HTTP.Enabled = false
	cfg.TCP.Enabled = false

	svc, err := NewService(context.Background(), cfg, newTestLogger())
	require.NoError(t, err)

	require.NoError(t, svc.Start())
	assert.Error(t, svc.Start())

	assert.Equal(t, 1, svc.Engine().Query(filter.Criteria{}, 1, 20).Total)

	require.NoError(t, os.WriteFile(path, []byte(
		`{"timestamp":"2024-01-01T00:00:00Z","event_type":"dns"}`+"\n"+
			`{"timestamp":"2024-01-03T00:00:00Z","event_type":"flow"}`+"\n"), 0o644))
	snap := svc.Reload()
	assert.NoError(t, snap.Err)
	assert.Equal(t, 2, svc.Engine().Query(filter.Criteria{}, 1, 20).Total)

	stats := svc.GetGlobalStats()
	assert.Equal(t, 0, stats["total_listeners"])
	assert.Contains(t, stats, "engine")

	svc.Shutdown()
}

func TestNewService_Errors(t *testing.T) {
	_, err := NewService(context.Background(), nil, newTestLogger())
	assert.Error(t, err)

	cfg := config.Default()
	cfg.Source.Path = ""
	_, err = NewService(context.Background(), cfg, newTestLogger())
	assert.Error(t, err)
}
