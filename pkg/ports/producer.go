package ports

import (
	"github.com/aretw0/sortviz/pkg/domain"
)

// Producer defines the interface for step-recording sort engines.
// Implementations are synchronous and keep no state between calls, so a single
// Producer may be shared by any number of goroutines.
type Producer interface {
	// Algorithm reports which algorithm the producer records.
	Algorithm() domain.Algorithm

	// Produce sorts a copy of array and returns the recorded run.
	// The input slice is never modified.
	Produce(array []int) (*domain.Run, error)
}
