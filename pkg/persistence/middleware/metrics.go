package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/aretw0/sortviz/pkg/ports"
)

// StoreMetrics holds the collectors shared by every store wrapped with NewMetricsMiddleware.
type StoreMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewStoreMetrics creates the collectors and registers them on reg.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sortviz",
				Subsystem: "store",
				Name:      "calls_total",
				Help:      "Run store calls by operation and result.",
			},
			[]string{"op", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sortviz",
				Subsystem: "store",
				Name:      "call_duration_seconds",
				Help:      "Run store call latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.calls, m.duration)
	return m
}

func (m *StoreMetrics) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, domain.ErrRunNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	m.calls.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

type metricsMiddleware struct {
	next    ports.RunStore
	metrics *StoreMetrics
}

// NewMetricsMiddleware counts and times every store call.
func NewMetricsMiddleware(metrics *StoreMetrics) Middleware {
	return func(next ports.RunStore) ports.RunStore {
		return &metricsMiddleware{next: next, metrics: metrics}
	}
}

func (m *metricsMiddleware) Save(ctx context.Context, sessionID string, run *domain.Run) error {
	start := time.Now()
	err := m.next.Save(ctx, sessionID, run)
	m.metrics.observe("save", start, err)
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context, sessionID string) (*domain.Run, error) {
	start := time.Now()
	run, err := m.next.Load(ctx, sessionID)
	m.metrics.observe("load", start, err)
	return run, err
}

func (m *metricsMiddleware) Delete(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, sessionID)
	m.metrics.observe("delete", start, err)
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.metrics.observe("list", start, err)
	return ids, err
}
