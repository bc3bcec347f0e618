package runtime

import (
	"fmt"
	"slices"

	"github.com/aretw0/sortviz/pkg/domain"
)

const (
	// DefaultMaxCounterSlots bounds the counter table when the range is computed from the input.
	DefaultMaxCounterSlots = 1024

	// minCounterTop keeps single digit inputs on the familiar 0..9 table.
	minCounterTop = 9
)

// CountingOption configures a CountingEngine.
type CountingOption func(*CountingEngine)

// WithCounterRange fixes the counter to [lo, hi]. Inputs outside it are rejected.
func WithCounterRange(lo, hi int) CountingOption {
	return func(e *CountingEngine) {
		e.fixed = true
		e.lo, e.hi = lo, hi
	}
}

// WithMaxCounterSlots caps the size of the counter table, fixed or computed.
func WithMaxCounterSlots(n int) CountingOption {
	return func(e *CountingEngine) {
		if n > 0 {
			e.maxSlots = n
		}
	}
}

// CountingEngine records a counting sort in two phases: a set phase that tallies each
// input into the counter, and a get phase that writes the smallest available value into
// each output slot.
type CountingEngine struct {
	fixed    bool
	lo, hi   int
	maxSlots int
}

// NewCountingEngine creates a counting sort producer.
func NewCountingEngine(opts ...CountingOption) *CountingEngine {
	e := &CountingEngine{maxSlots: DefaultMaxCounterSlots}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Algorithm implements ports.Producer.
func (e *CountingEngine) Algorithm() domain.Algorithm {
	return domain.AlgorithmCounting
}

// counterRange returns the value held by slot 0 and the number of slots.
func (e *CountingEngine) counterRange(array []int) (base, slots int, err error) {
	lo, hi := slices.Min(array), slices.Max(array)
	if e.fixed {
		if e.hi < e.lo {
			return 0, 0, fmt.Errorf("%w: counter range [%d, %d] is empty", domain.ErrOutOfRangeValue, e.lo, e.hi)
		}
		if lo < e.lo || hi > e.hi {
			return 0, 0, fmt.Errorf("%w: input spans [%d, %d], counter covers [%d, %d]",
				domain.ErrOutOfRangeValue, lo, hi, e.lo, e.hi)
		}
		slots, ok := slotCount(e.lo, e.hi, e.maxSlots)
		if !ok {
			return 0, 0, fmt.Errorf("%w: counter range [%d, %d] exceeds the limit of %d slots",
				domain.ErrOutOfRangeValue, e.lo, e.hi, e.maxSlots)
		}
		return e.lo, slots, nil
	}

	base = min(0, lo)
	top := max(minCounterTop, hi)
	slots, ok := slotCount(base, top, e.maxSlots)
	if !ok {
		return 0, 0, fmt.Errorf("%w: input spans [%d, %d], the counter would exceed the limit of %d slots",
			domain.ErrOutOfRangeValue, lo, hi, e.maxSlots)
	}
	return base, slots, nil
}

// slotCount returns hi-lo+1 when it fits in limit. The span is taken in uint64 so
// ranges as wide as [math.MinInt, math.MaxInt] cannot wrap. lo <= hi is required.
func slotCount(lo, hi, limit int) (int, bool) {
	span := uint64(hi) - uint64(lo)
	if span >= uint64(limit) {
		return 0, false
	}
	return int(span) + 1, true
}

// Produce implements ports.Producer.
func (e *CountingEngine) Produce(array []int) (*domain.Run, error) {
	if err := requireInput(array); err != nil {
		return nil, err
	}
	base, slots, err := e.counterRange(array)
	if err != nil {
		return nil, err
	}

	n := len(array)
	counter := make([]int, slots)
	visibility := make([]int, n)
	rec := newRecorder(domain.AlgorithmCounting, array, 2*n+1)

	frame := func(show bool) *domain.CountingFrame {
		return &domain.CountingFrame{
			Counter:         counter,
			CounterBase:     base,
			ArrayVisibility: visibility,
			ShowCountArray:  show,
		}
	}

	// Set phase: the array shown is the input, progressively hidden as it is tallied.
	for i := 0; i < n; i++ {
		counter[array[i]-base]++
		for j := range visibility {
			visibility[j] = boolToInt(j > i)
		}
		rec.append(domain.Step{
			Algorithm:     domain.AlgorithmCounting,
			Array:         array,
			InitialArray:  array,
			Primary:       i,
			Secondary:     i,
			SortedIndices: []int{},
			Animation:     domain.AnimationSet,
			Counting:      frame(true),
		})
	}

	// Get phase: the output buffer starts as a copy of the input and is overwritten slot by slot.
	out := slices.Clone(array)
	for i := 0; i < n; i++ {
		for v := range counter {
			if counter[v] > 0 {
				out[i] = base + v
				counter[v]--
				break
			}
		}
		for j := range visibility {
			visibility[j] = boolToInt(j <= i)
		}
		sorted := make([]int, 0, n)
		for j := i; j < n-1; j++ {
			sorted = append(sorted, j)
		}
		rec.append(domain.Step{
			Algorithm:     domain.AlgorithmCounting,
			Array:         out,
			InitialArray:  array,
			Primary:       i,
			Secondary:     i,
			SortedIndices: sorted,
			Animation:     domain.AnimationGet,
			Counting:      frame(true),
		})
	}

	// The last index is never reported as sorted on the terminal step.
	final := make([]int, 0, n)
	for j := 0; j < n-1; j++ {
		final = append(final, j)
	}
	return rec.finish(domain.Step{
		Array:         out,
		Primary:       n - 1,
		Secondary:     n - 1,
		SortedIndices: final,
		Animation:     domain.AnimationNone,
		Counting:      frame(false),
	}, out)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
