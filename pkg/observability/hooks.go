package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/sortviz/pkg/domain"
)

// CombineHooks returns hooks that call every non-nil callback of each set, in order.
func CombineHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnRunStart = chain(out.OnRunStart, h.OnRunStart)
		out.OnRunComplete = chain(out.OnRunComplete, h.OnRunComplete)
		out.OnStepRead = chain(out.OnStepRead, h.OnStepRead)
		out.OnRunReset = chain(out.OnRunReset, h.OnRunReset)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LoggingHooks logs run lifecycle events. Step reads are logged at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.DebugContext(ctx, "run_start",
				"session_id", e.SessionID,
				"algorithm", e.Algorithm,
				"input_size", e.InputSize,
			)
		},
		OnRunComplete: func(ctx context.Context, e *domain.RunEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "run_failed",
					"session_id", e.SessionID,
					"algorithm", e.Algorithm,
					"err", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, "run_complete",
				"session_id", e.SessionID,
				"algorithm", e.Algorithm,
				"steps", e.TotalSteps,
				"duration", e.Duration,
			)
		},
		OnStepRead: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_read",
				"session_id", e.SessionID,
				"index", e.Index,
				"err", e.Err,
			)
		},
		OnRunReset: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_reset", "session_id", e.SessionID)
		},
	}
}
