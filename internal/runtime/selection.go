package runtime

import (
	"slices"

	"github.com/aretw0/sortviz/pkg/domain"
)

// SelectionEngine records a selection sort. Markers are (currentIndex, minIndex).
type SelectionEngine struct{}

// NewSelectionEngine creates a selection sort producer.
func NewSelectionEngine() *SelectionEngine {
	return &SelectionEngine{}
}

// Algorithm implements ports.Producer.
func (e *SelectionEngine) Algorithm() domain.Algorithm {
	return domain.AlgorithmSelection
}

// Produce implements ports.Producer.
func (e *SelectionEngine) Produce(array []int) (*domain.Run, error) {
	if err := requireInput(array); err != nil {
		return nil, err
	}
	n := len(array)
	a := slices.Clone(array)
	rec := newRecorder(domain.AlgorithmSelection, array, n*n/2+n+2)

	for i := 0; i < n-1; i++ {
		minIdx := i
		for j := i + 1; j < n; j++ {
			// recorded before the comparison, so minIndex is the value held so far
			rec.emit(a, i, minIdx, domain.AnimationCompare)
			if a[j] < a[minIdx] {
				minIdx = j
			}
		}
		rec.emit(a, i, minIdx, domain.AnimationFoundPosition)
		a[i], a[minIdx] = a[minIdx], a[i]
		rec.markSorted(i)
	}

	rec.emit(a, n-1, n-1, domain.AnimationNone)
	rec.markSorted(n - 1)

	return rec.finish(domain.Step{
		Array:     a,
		Primary:   n - 1,
		Secondary: n - 1,
		Animation: domain.AnimationDone,
	}, a)
}

// PassResult is the outcome of a single selection pass.
type PassResult struct {
	Array         []int `json:"array"`
	CurrentIndex  int   `json:"currentIndex"`
	MinIndex      int   `json:"minIndex"`
	SortedIndices []int `json:"sortedIndices"`
	Completed     bool  `json:"completed"`
}

// AdvancePass performs the selection pass at currentIndex on a copy of array without
// recording a run. Front ends that drive the sort one pass at a time call it repeatedly,
// feeding back Array and CurrentIndex.
func AdvancePass(array []int, currentIndex int) (*PassResult, error) {
	if err := requireInput(array); err != nil {
		return nil, err
	}
	n := len(array)
	if currentIndex < 0 || currentIndex >= n {
		return nil, domain.ErrInvalidStepIndex
	}
	a := slices.Clone(array)

	minIdx := currentIndex
	for j := currentIndex + 1; j < n; j++ {
		if a[j] < a[minIdx] {
			minIdx = j
		}
	}
	a[currentIndex], a[minIdx] = a[minIdx], a[currentIndex]

	sorted := make([]int, 0, currentIndex+1)
	for k := 0; k <= currentIndex; k++ {
		sorted = append(sorted, k)
	}

	return &PassResult{
		Array:         a,
		CurrentIndex:  currentIndex + 1,
		MinIndex:      minIdx,
		SortedIndices: sorted,
		Completed:     currentIndex >= n-1,
	}, nil
}

// StartPass returns the state a pass-driven front end begins from.
func StartPass(array []int) (*PassResult, error) {
	if err := requireInput(array); err != nil {
		return nil, err
	}
	return &PassResult{
		Array:         slices.Clone(array),
		SortedIndices: []int{},
	}, nil
}
