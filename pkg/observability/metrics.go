package observability

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/sortviz/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	runSteps    *prometheus.HistogramVec
	stepReads   *prometheus.CounterVec
	resets      prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sortviz_runs_total",
				Help: "Total number of recorded runs by algorithm and result",
			},
			[]string{"algorithm", "result"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sortviz_run_duration_seconds",
				Help:    "Time spent recording a run",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"algorithm"},
		),
		runSteps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sortviz_run_steps",
				Help:    "Number of steps recorded per run",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"algorithm"},
		),
		stepReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sortviz_step_reads_total",
				Help: "Total number of step lookups by result",
			},
			[]string{"result"},
		),
		resets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sortviz_run_resets_total",
				Help: "Total number of session resets",
			},
		),
	}
	reg.MustRegister(m.runs, m.runDuration, m.runSteps, m.stepReads, m.resets)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunComplete: func(ctx context.Context, e *domain.RunEvent) {
			algorithm := string(e.Algorithm)
			if e.Err != nil {
				m.runs.WithLabelValues(algorithm, errorResult(e.Err)).Inc()
				return
			}
			m.runs.WithLabelValues(algorithm, "ok").Inc()
			m.runDuration.WithLabelValues(algorithm).Observe(e.Duration.Seconds())
			m.runSteps.WithLabelValues(algorithm).Observe(float64(e.TotalSteps))
		},
		OnStepRead: func(ctx context.Context, e *domain.StepEvent) {
			result := "ok"
			if e.Err != nil {
				result = errorResult(e.Err)
			}
			m.stepReads.WithLabelValues(result).Inc()
		},
		OnRunReset: func(ctx context.Context, e *domain.RunEvent) {
			m.resets.Inc()
		},
	}
}

func errorResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrOutOfRangeValue):
		return "invalid_input"
	case errors.Is(err, domain.ErrUnknownAlgorithm):
		return "unknown_algorithm"
	case errors.Is(err, domain.ErrInvalidStepIndex):
		return "invalid_index"
	}
	return "error"
}
