package ports

import (
	"context"

	"github.com/aretw0/sortviz/pkg/domain"
)

// Recorder defines the session-scoped operations that delivery adapters (HTTP, MCP, the
// terminal player) need. The root sortviz.Engine implements it.
type Recorder interface {
	// Init records a new run and makes it the session's current run.
	Init(ctx context.Context, sessionID, algorithm string, array []int) (*domain.InitSummary, error)

	// Steps returns every step of the session's run, or an empty slice if it has none.
	Steps(ctx context.Context, sessionID string) ([]domain.Step, error)

	// Step returns one step of the session's run.
	Step(ctx context.Context, sessionID string, index int) (*domain.StepResponse, error)

	// Run returns the session's full run. Returns domain.ErrRunNotFound if it has none.
	Run(ctx context.Context, sessionID string) (*domain.Run, error)

	// Reset discards the session's run.
	Reset(ctx context.Context, sessionID string) error

	// Sessions lists the sessions that hold a run.
	Sessions(ctx context.Context) ([]string, error)

	// Algorithms lists the algorithms Init accepts.
	Algorithms() []domain.Algorithm
}
