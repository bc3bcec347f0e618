package runtime

import (
	"fmt"
	"slices"

	"github.com/aretw0/sortviz/pkg/domain"
)

// recorder accumulates the steps of one run. The first append error is kept and
// reported by finish; later emits become no-ops.
type recorder struct {
	algorithm domain.Algorithm
	initial   []int
	sorted    []int
	timeline  *domain.Timeline
	err       error
}

func newRecorder(algorithm domain.Algorithm, input []int, capacity int) *recorder {
	return &recorder{
		algorithm: algorithm,
		initial:   slices.Clone(input),
		sorted:    []int{},
		timeline:  domain.NewTimeline(capacity),
	}
}

func (r *recorder) markSorted(i int) {
	r.sorted = append(r.sorted, i)
}

func (r *recorder) emit(array []int, primary, secondary int, anim domain.Animation) {
	r.append(domain.Step{
		Algorithm:     r.algorithm,
		Array:         array,
		InitialArray:  r.initial,
		Primary:       primary,
		Secondary:     secondary,
		SortedIndices: r.sorted,
		Animation:     anim,
	})
}

// append records s as is. The timeline copies every slice, so callers may keep mutating theirs.
func (r *recorder) append(s domain.Step) {
	if r.err != nil {
		return
	}
	if err := r.timeline.Append(s); err != nil {
		r.err = fmt.Errorf("record step %d: %w", r.timeline.Len(), err)
	}
}

// finish emits the terminal step and assembles the run.
func (r *recorder) finish(terminal domain.Step, sorted []int) (*domain.Run, error) {
	terminal.Algorithm = r.algorithm
	terminal.InitialArray = r.initial
	terminal.Completed = true
	if terminal.SortedIndices == nil {
		terminal.SortedIndices = r.sorted
	}
	r.append(terminal)
	if r.err != nil {
		return nil, r.err
	}
	return &domain.Run{
		Algorithm:     r.algorithm,
		OriginalArray: slices.Clone(r.initial),
		SortedArray:   slices.Clone(sorted),
		Message:       completedMessage(r.algorithm),
		Timeline:      r.timeline,
	}, nil
}

func completedMessage(a domain.Algorithm) string {
	return fmt.Sprintf("%s sort completed successfully", a)
}

func requireInput(array []int) error {
	if len(array) == 0 {
		return fmt.Errorf("%w: input array cannot be empty", domain.ErrInvalidInput)
	}
	return nil
}
