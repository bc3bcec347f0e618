package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sortviz/internal/runtime"
	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/aretw0/sortviz/pkg/persistence/middleware"
)

func sampleRun(t *testing.T) *domain.Run {
	t.Helper()
	run, err := runtime.NewBubbleEngine().Produce([]int{3, 1, 2})
	require.NoError(t, err)
	return run
}

func TestValidationMiddleware(t *testing.T) {
	underlying := NewMockStore()
	store := middleware.NewValidationMiddleware()(underlying)
	ctx := context.Background()

	t.Run("Valid Run Passes Through", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "ok", sampleRun(t)))
		_, err := store.Load(ctx, "ok")
		assert.NoError(t, err)
	})

	t.Run("Empty Timeline Rejected On Save", func(t *testing.T) {
		err := store.Save(ctx, "bad", &domain.Run{Timeline: domain.NewTimeline(0)})
		assert.Error(t, err)
		_, ok := underlying.data["bad"]
		assert.False(t, ok)
	})

	t.Run("Corrupted Entry Rejected On Load", func(t *testing.T) {
		underlying.data["corrupt"] = &domain.Run{Timeline: domain.NewTimeline(0)}
		_, err := store.Load(ctx, "corrupt")
		assert.Error(t, err)
	})

	t.Run("Not Found Preserved", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	underlying := NewMockStore()
	store := middleware.NewLoggingMiddleware(logger)(underlying)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", sampleRun(t)))
	assert.Contains(t, buf.String(), "op=save")
	assert.Contains(t, buf.String(), "session_id=s1")
	assert.Contains(t, buf.String(), "steps=6")

	buf.Reset()
	_, _ = store.Load(ctx, "missing")
	assert.Contains(t, buf.String(), "level=DEBUG")

	buf.Reset()
	underlying.failing = true
	_, err := store.Load(ctx, "s1")
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.True(t, strings.Contains(buf.String(), "backend down"))
}

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.NewStoreMetrics(reg)
	underlying := NewMockStore()
	store := middleware.Chain(underlying, middleware.NewMetricsMiddleware(metrics), middleware.NewValidationMiddleware())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", sampleRun(t)))
	_, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	_, err = store.Load(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrRunNotFound)

	expected := `
# HELP sortviz_store_calls_total Run store calls by operation and result.
# TYPE sortviz_store_calls_total counter
sortviz_store_calls_total{op="load",result="not_found"} 1
sortviz_store_calls_total{op="load",result="ok"} 1
sortviz_store_calls_total{op="save",result="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "sortviz_store_calls_total"))
}
