package domain

import (
	"slices"
)

// StepDiff represents the changes between two consecutive steps of a run.
// It is designed to be serialized to JSON for incremental replay on the client.
type StepDiff struct {
	// Index is always present and identifies the step the diff produces.
	Index int `json:"index"`

	// Changed maps array positions to their new value.
	Changed map[int]int `json:"changed,omitempty"`

	Algorithm *Algorithm `json:"algorithm,omitempty"`
	Primary   *int       `json:"primary,omitempty"`
	Secondary *int       `json:"secondary,omitempty"`
	Animation *Animation `json:"animation,omitempty"`
	Completed *bool      `json:"completed,omitempty"`

	// Sorted carries either the appended tail of the sorted set or, when the set was
	// rewritten, its full replacement.
	Sorted *SortedDelta `json:"sorted,omitempty"`

	// Counting is sent whole whenever any part of the frame changed.
	Counting *CountingFrame `json:"counting,omitempty"`
}

// SortedDelta represents changes to the sorted index set.
type SortedDelta struct {
	Appended []int `json:"appended,omitempty"`
	Replaced []int `json:"replaced,omitempty"`
}

// Diff calculates the difference between oldStep and newStep.
// If oldStep is nil, it returns a diff representing the entire newStep (first frame).
func Diff(oldStep, newStep *Step, index int) *StepDiff {
	if newStep == nil {
		return nil
	}

	diff := &StepDiff{Index: index}

	if oldStep == nil || oldStep.Algorithm != newStep.Algorithm {
		diff.Algorithm = &newStep.Algorithm
	}
	if oldStep == nil || oldStep.Primary != newStep.Primary {
		diff.Primary = &newStep.Primary
	}
	if oldStep == nil || oldStep.Secondary != newStep.Secondary {
		diff.Secondary = &newStep.Secondary
	}
	if oldStep == nil || oldStep.Animation != newStep.Animation {
		diff.Animation = &newStep.Animation
	}
	if (oldStep == nil && newStep.Completed) || (oldStep != nil && oldStep.Completed != newStep.Completed) {
		diff.Completed = &newStep.Completed
	}

	diff.Changed = diffArray(oldStep, newStep)
	diff.Sorted = diffSorted(oldStep, newStep)

	if newStep.Counting != nil && (oldStep == nil || !equalFrame(oldStep.Counting, newStep.Counting)) {
		frame := newStep.Clone().Counting
		diff.Counting = frame
	}

	return diff
}

func diffArray(old, new *Step) map[int]int {
	delta := make(map[int]int)
	for i, v := range new.Array {
		if old == nil || i >= len(old.Array) || old.Array[i] != v {
			delta[i] = v
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}

// diffSorted prefers an append when the old set is a prefix of the new one.
func diffSorted(old, new *Step) *SortedDelta {
	if old == nil {
		if len(new.SortedIndices) == 0 {
			return nil
		}
		return &SortedDelta{Appended: slices.Clone(new.SortedIndices)}
	}
	if slices.Equal(old.SortedIndices, new.SortedIndices) {
		return nil
	}
	if len(new.SortedIndices) > len(old.SortedIndices) &&
		slices.Equal(old.SortedIndices, new.SortedIndices[:len(old.SortedIndices)]) {
		return &SortedDelta{Appended: slices.Clone(new.SortedIndices[len(old.SortedIndices):])}
	}
	return &SortedDelta{Replaced: cloneIndices(new.SortedIndices)}
}

func equalFrame(a, b *CountingFrame) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.CounterBase == b.CounterBase &&
		a.ShowCountArray == b.ShowCountArray &&
		slices.Equal(a.Counter, b.Counter) &&
		slices.Equal(a.ArrayVisibility, b.ArrayVisibility)
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StepDiff) IsEmpty() bool {
	return d.Algorithm == nil &&
		d.Primary == nil &&
		d.Secondary == nil &&
		d.Animation == nil &&
		d.Completed == nil &&
		len(d.Changed) == 0 &&
		d.Sorted == nil &&
		d.Counting == nil
}

// Apply returns prev with the diff merged in. prev is not modified.
func (d *StepDiff) Apply(prev Step) Step {
	next := prev.Clone()
	for i, v := range d.Changed {
		for len(next.Array) <= i {
			next.Array = append(next.Array, 0)
		}
		next.Array[i] = v
	}
	if d.Algorithm != nil {
		next.Algorithm = *d.Algorithm
	}
	if d.Primary != nil {
		next.Primary = *d.Primary
	}
	if d.Secondary != nil {
		next.Secondary = *d.Secondary
	}
	if d.Animation != nil {
		next.Animation = *d.Animation
	}
	if d.Completed != nil {
		next.Completed = *d.Completed
	}
	if d.Sorted != nil {
		// An empty Replaced set does not survive omitempty, so a delta without
		// appended indices always means replace.
		if len(d.Sorted.Appended) > 0 {
			next.SortedIndices = append(next.SortedIndices, d.Sorted.Appended...)
		} else {
			next.SortedIndices = cloneIndices(d.Sorted.Replaced)
		}
	}
	if d.Counting != nil {
		frame := *d.Counting
		frame.Counter = slices.Clone(d.Counting.Counter)
		frame.ArrayVisibility = slices.Clone(d.Counting.ArrayVisibility)
		next.Counting = &frame
	}
	return next
}
