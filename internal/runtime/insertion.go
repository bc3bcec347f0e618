package runtime

import (
	"slices"

	"github.com/aretw0/sortviz/pkg/domain"
)

// InsertionEngine records an insertion sort that shifts larger elements one slot right.
type InsertionEngine struct{}

// NewInsertionEngine creates an insertion sort producer.
func NewInsertionEngine() *InsertionEngine {
	return &InsertionEngine{}
}

// Algorithm implements ports.Producer.
func (e *InsertionEngine) Algorithm() domain.Algorithm {
	return domain.AlgorithmInsertion
}

// Produce implements ports.Producer.
//
// Markers are (currentIndex, comparingIndex). A shift is recorded as a compare step
// followed by a swap step whose array briefly holds the shifted value twice.
func (e *InsertionEngine) Produce(array []int) (*domain.Run, error) {
	if err := requireInput(array); err != nil {
		return nil, err
	}
	n := len(array)
	a := slices.Clone(array)
	rec := newRecorder(domain.AlgorithmInsertion, array, n*n+n+1)
	rec.markSorted(0)

	for i := 1; i < n; i++ {
		key := a[i]
		j := i - 1
		rec.emit(a, i, i, domain.AnimationDown)

		for j >= 0 && a[j] > key {
			rec.emit(a, i, j, domain.AnimationCompare)
			a[j+1] = a[j]
			rec.emit(a, j+1, j, domain.AnimationSwap)
			j--
		}
		// stopped on a smaller-or-equal neighbour rather than running off the front
		if j >= 0 {
			rec.emit(a, j+1, j, domain.AnimationFoundPosition)
		}

		a[j+1] = key
		rec.markSorted(i)
		rec.emit(a, j+1, j+1, domain.AnimationInserted)
	}

	return rec.finish(domain.Step{
		Array:     a,
		Primary:   n - 1,
		Secondary: n - 1,
		Animation: domain.AnimationDone,
	}, a)
}
