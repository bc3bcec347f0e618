package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/aretw0/sortviz/pkg/observability"
)

func TestCombineHooks(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnRunStart: func(context.Context, *domain.RunEvent) { calls = append(calls, "a.start") },
	}
	b := domain.LifecycleHooks{
		OnRunStart: func(context.Context, *domain.RunEvent) { calls = append(calls, "b.start") },
		OnRunReset: func(context.Context, *domain.RunEvent) { calls = append(calls, "b.reset") },
	}

	h := observability.CombineHooks(a, domain.LifecycleHooks{}, b)
	require.NotNil(t, h.OnRunStart)
	require.NotNil(t, h.OnRunReset)
	assert.Nil(t, h.OnStepRead)

	h.OnRunStart(context.Background(), &domain.RunEvent{})
	h.OnRunReset(context.Background(), &domain.RunEvent{})
	assert.Equal(t, []string{"a.start", "b.start", "b.reset"}, calls)
}

func TestMetricsHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	hooks := observability.NewMetrics(reg).Hooks()
	ctx := context.Background()

	hooks.OnRunComplete(ctx, &domain.RunEvent{Algorithm: domain.AlgorithmBubble, TotalSteps: 6, Duration: time.Millisecond})
	hooks.OnRunComplete(ctx, &domain.RunEvent{Algorithm: domain.AlgorithmCounting, Err: domain.ErrOutOfRangeValue})
	hooks.OnStepRead(ctx, &domain.StepEvent{Index: 3})
	hooks.OnStepRead(ctx, &domain.StepEvent{Index: 99, Err: domain.ErrInvalidStepIndex})
	hooks.OnRunReset(ctx, &domain.RunEvent{})

	expected := `
# HELP sortviz_runs_total Total number of recorded runs by algorithm and result
# TYPE sortviz_runs_total counter
sortviz_runs_total{algorithm="bubble",result="ok"} 1
sortviz_runs_total{algorithm="counting",result="invalid_input"} 1
# HELP sortviz_step_reads_total Total number of step lookups by result
# TYPE sortviz_step_reads_total counter
sortviz_step_reads_total{result="invalid_index"} 1
sortviz_step_reads_total{result="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"sortviz_runs_total", "sortviz_step_reads_total"))
	count, err := testutil.GatherAndCount(reg, "sortviz_run_resets_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	hooks := observability.LoggingHooks(logger)

	hooks.OnRunComplete(context.Background(), &domain.RunEvent{
		EventBase:  domain.EventBase{SessionID: "s1"},
		Algorithm:  domain.AlgorithmInsertion,
		TotalSteps: 5,
	})
	assert.Contains(t, buf.String(), "run_complete")
	assert.Contains(t, buf.String(), "session_id=s1")
	assert.Contains(t, buf.String(), "steps=5")
}
