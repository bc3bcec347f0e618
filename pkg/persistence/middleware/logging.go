package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/aretw0/sortviz/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.RunStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level, and failures at error level.
// A missing run is not treated as a failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.RunStore) ports.RunStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, sessionID string, start time.Time, err error, attrs ...any) {
	attrs = append(attrs, "op", op, "session_id", sessionID, "duration", time.Since(start))
	if err != nil && !errors.Is(err, domain.ErrRunNotFound) {
		m.logger.ErrorContext(ctx, "run store call failed", append(attrs, "error", err)...)
		return
	}
	m.logger.DebugContext(ctx, "run store call", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, sessionID string, run *domain.Run) error {
	start := time.Now()
	err := m.next.Save(ctx, sessionID, run)
	m.log(ctx, "save", sessionID, start, err, "algorithm", run.Algorithm, "steps", run.Timeline.Len())
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, sessionID string) (*domain.Run, error) {
	start := time.Now()
	run, err := m.next.Load(ctx, sessionID)
	m.log(ctx, "load", sessionID, start, err)
	return run, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, sessionID)
	m.log(ctx, "delete", sessionID, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.log(ctx, "list", "", start, err, "count", len(ids))
	return ids, err
}
