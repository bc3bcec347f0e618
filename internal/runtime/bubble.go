package runtime

import (
	"slices"

	"github.com/aretw0/sortviz/pkg/domain"
)

// BubbleEngine records an adjacent-swap bubble sort.
//
// Sorted indices grow at the tail: before every pass after the first, n-i is appended,
// and 0 is appended last. The resulting set is in descending order.
type BubbleEngine struct{}

// NewBubbleEngine creates a bubble sort producer.
func NewBubbleEngine() *BubbleEngine {
	return &BubbleEngine{}
}

// Algorithm implements ports.Producer.
func (e *BubbleEngine) Algorithm() domain.Algorithm {
	return domain.AlgorithmBubble
}

// Produce implements ports.Producer.
func (e *BubbleEngine) Produce(array []int) (*domain.Run, error) {
	if err := requireInput(array); err != nil {
		return nil, err
	}
	n := len(array)
	a := slices.Clone(array)
	rec := newRecorder(domain.AlgorithmBubble, array, n*n+1)

	for i := 0; i < n-1; i++ {
		if i > 0 {
			rec.markSorted(n - i)
		}
		for j := 0; j < n-i-1; j++ {
			rec.emit(a, j, j+1, domain.AnimationNone)
			if a[j] > a[j+1] {
				a[j], a[j+1] = a[j+1], a[j]
				rec.emit(a, j, j+1, domain.AnimationSwap)
			}
		}
	}
	rec.markSorted(0)

	return rec.finish(domain.Step{
		Array:     a,
		Primary:   n - 1,
		Secondary: n - 1,
		Animation: domain.AnimationNone,
	}, a)
}
