package ports

import (
	"context"

	"github.com/aretw0/sortviz/pkg/domain"
)

// RunStore defines the interface for persisting the current run of each session.
// Only the latest run is kept: saving under an existing session ID replaces it.
type RunStore interface {
	// Save persists the run for a given session ID.
	Save(ctx context.Context, sessionID string, run *domain.Run) error

	// Load retrieves the run for a given session ID.
	// Returns domain.ErrRunNotFound if the session has no run.
	Load(ctx context.Context, sessionID string) (*domain.Run, error)

	// Delete removes the run for a given session ID. Deleting a missing run is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all sessions that currently hold a run.
	List(ctx context.Context) ([]string, error)
}
