package middleware

import (
	"context"
	"fmt"

	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/aretw0/sortviz/pkg/ports"
)

type validationMiddleware struct {
	next ports.RunStore
}

// NewValidationMiddleware checks the timeline invariants of a run before it is written and
// after it is read back, so a corrupted backend entry never reaches a caller.
func NewValidationMiddleware() Middleware {
	return func(next ports.RunStore) ports.RunStore {
		return &validationMiddleware{next: next}
	}
}

func (m *validationMiddleware) Save(ctx context.Context, sessionID string, run *domain.Run) error {
	if err := run.Timeline.Validate(); err != nil {
		return fmt.Errorf("refusing to save run for %s: %w", sessionID, err)
	}
	return m.next.Save(ctx, sessionID, run)
}

func (m *validationMiddleware) Load(ctx context.Context, sessionID string) (*domain.Run, error) {
	run, err := m.next.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := run.Timeline.Validate(); err != nil {
		return nil, fmt.Errorf("stored run for %s is invalid: %w", sessionID, err)
	}
	return run, nil
}

func (m *validationMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *validationMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
