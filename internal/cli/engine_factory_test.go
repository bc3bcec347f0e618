package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/sortviz/internal/config"
	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_Backends(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name      string
		configure func(c *config.Config)
	}{
		{name: "memory", configure: func(c *config.Config) {}},
		{name: "file", configure: func(c *config.Config) {
			c.Store.Backend = config.BackendFile
			c.Store.Path = filepath.Join(t.TempDir(), "runs")
		}},
		{name: "sqlite", configure: func(c *config.Config) {
			c.Store.Backend = config.BackendSQLite
			c.Store.Path = filepath.Join(t.TempDir(), "sortviz.db")
		}},
		{name: "redis", configure: func(c *config.Config) {
			c.Store.Backend = config.BackendRedis
			c.Store.Redis.Addr = mr.Addr()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.configure(&cfg)
			require.NoError(t, cfg.Validate())

			app, err := NewApp(cfg, nil)
			require.NoError(t, err)
			t.Cleanup(func() { assert.NoError(t, app.Close()) })

			ctx := context.Background()
			summary, err := app.Engine.Init(ctx, "s1", "insertion", []int{2, 1})
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2}, summary.SortedArray)

			steps, err := app.Engine.Steps(ctx, "s1")
			require.NoError(t, err)
			assert.Len(t, steps, summary.TotalSteps)

			sessions, err := app.Engine.Sessions(ctx)
			require.NoError(t, err)
			assert.Contains(t, sessions, "s1")
		})
	}
}

func TestNewApp_RegistersMetrics(t *testing.T) {
	app, err := NewApp(config.Default(), nil)
	require.NoError(t, err)
	defer app.Close()

	_, err = app.Engine.Init(context.Background(), "", "bubble", []int{3, 1, 2})
	require.NoError(t, err)

	families, err := app.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["sortviz_runs_total"])
	assert.True(t, names["sortviz_store_calls_total"])
	assert.True(t, names["go_goroutines"])
}

func TestNewApp_CountingRange(t *testing.T) {
	lo, hi := 0, 3
	cfg := config.Default()
	cfg.Counting.Min, cfg.Counting.Max = &lo, &hi

	app, err := NewApp(cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	_, err = app.Engine.Init(context.Background(), "", "counting", []int{2, 9})
	assert.ErrorIs(t, err, domain.ErrOutOfRangeValue)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(config.LogConfig{Level: "chatty", Format: "text"})
	assert.Error(t, err)
}

func TestNewApp_MaxArrayLength(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.MaxArrayLength = 3

	app, err := NewApp(cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	_, err = app.Engine.Init(context.Background(), "", "bubble", []int{4, 3, 2, 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = app.Engine.Init(context.Background(), "", "bubble", []int{3, 2, 1})
	assert.NoError(t, err)
}
