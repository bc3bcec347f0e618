package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Timeline is the append-only store of the steps of a single run.
// Steps are copied on the way in and on the way out.
type Timeline struct {
	steps []Step
}

// NewTimeline creates an empty timeline with room for capacity steps.
func NewTimeline(capacity int) *Timeline {
	return &Timeline{steps: make([]Step, 0, max(capacity, 0))}
}

// Append records a step. Nothing can follow a completed step.
func (t *Timeline) Append(s Step) error {
	if n := len(t.steps); n > 0 && t.steps[n-1].Completed {
		return ErrRunCompleted
	}
	t.steps = append(t.steps, s.Clone())
	return nil
}

// Len returns the number of recorded steps.
func (t *Timeline) Len() int {
	if t == nil {
		return 0
	}
	return len(t.steps)
}

// At returns a copy of the i-th step.
func (t *Timeline) At(i int) (Step, error) {
	if i < 0 || i >= t.Len() {
		return Step{}, fmt.Errorf("%w: %d (have %d steps)", ErrInvalidStepIndex, i, t.Len())
	}
	return t.steps[i].Clone(), nil
}

// All returns copies of every step in generation order.
func (t *Timeline) All() []Step {
	out := make([]Step, 0, t.Len())
	if t == nil {
		return out
	}
	for _, s := range t.steps {
		out = append(out, s.Clone())
	}
	return out
}

// Last returns the final step, if any.
func (t *Timeline) Last() (Step, bool) {
	if t.Len() == 0 {
		return Step{}, false
	}
	return t.steps[len(t.steps)-1].Clone(), true
}

// Clone returns an independent copy of the timeline.
func (t *Timeline) Clone() *Timeline {
	if t == nil {
		return nil
	}
	return &Timeline{steps: t.All()}
}

// Validate checks the per-run invariants: constant array length, identical initial array,
// in-range and duplicate-free sorted indices, and exactly one completed step which is last.
func (t *Timeline) Validate() error {
	if t.Len() == 0 {
		return fmt.Errorf("%w: timeline is empty", ErrInvalidInput)
	}
	first := t.steps[0]
	n := len(first.InitialArray)
	for i, s := range t.steps {
		if len(s.Array) != n {
			return fmt.Errorf("step %d: array length %d, want %d", i, len(s.Array), n)
		}
		if !slices.Equal(s.InitialArray, first.InitialArray) {
			return fmt.Errorf("step %d: initial array changed", i)
		}
		seen := make(map[int]struct{}, len(s.SortedIndices))
		for _, idx := range s.SortedIndices {
			if idx < 0 || idx >= n {
				return fmt.Errorf("step %d: sorted index %d out of range", i, idx)
			}
			if _, dup := seen[idx]; dup {
				return fmt.Errorf("step %d: duplicate sorted index %d", i, idx)
			}
			seen[idx] = struct{}{}
		}
		if s.Completed != (i == len(t.steps)-1) {
			return fmt.Errorf("step %d: completed=%t", i, s.Completed)
		}
		if !s.Animation.Valid() {
			return fmt.Errorf("step %d: unknown animation %q", i, s.Animation)
		}
	}
	return nil
}

// MarshalJSON encodes the timeline as a plain array of steps.
func (t *Timeline) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.All())
}

// UnmarshalJSON decodes a plain array of steps.
func (t *Timeline) UnmarshalJSON(data []byte) error {
	var steps []Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return err
	}
	if steps == nil {
		steps = []Step{}
	}
	t.steps = steps
	return nil
}
