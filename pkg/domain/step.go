package domain

import (
	"encoding/json"
	"slices"
)

// Step is one recorded moment of a run: enough to redraw the array plus the metadata
// that tells the front end what to highlight and which transition to play.
//
// Every engine shares the same base. The meaning of the two index markers depends on the
// Algorithm discriminant (see MarkerNames); counting sort adds a CountingFrame payload.
type Step struct {
	Algorithm Algorithm

	// Array is the working array at this moment. For counting sort it is the output
	// buffer, seeded from the input and overwritten slot by slot during the get phase.
	Array []int

	// InitialArray is the untouched input, identical on every step of a run.
	InitialArray []int

	Primary   int
	Secondary int

	// SortedIndices holds the positions considered settled for highlighting purposes.
	SortedIndices []int

	// Completed is true only on the terminal step.
	Completed bool

	Animation Animation

	// Counting is non-nil only for counting sort steps.
	Counting *CountingFrame
}

// CountingFrame is the counting-sort specific part of a Step.
type CountingFrame struct {
	// Counter is the frequency table. Slot k counts occurrences of CounterBase+k.
	Counter     []int
	CounterBase int

	// ArrayVisibility is a per-index 0/1 mask of revealed positions.
	ArrayVisibility []int

	// ShowCountArray tells the front end whether to render the counter panel.
	ShowCountArray bool
}

// MarkerNames returns the wire names of the primary and secondary index markers for an algorithm.
// Counting sort has a single marker; its secondary name is empty.
func MarkerNames(a Algorithm) (primary, secondary string) {
	switch a {
	case AlgorithmBubble:
		return "comparingIndex", "swapIndex"
	case AlgorithmInsertion:
		return "currentIndex", "comparingIndex"
	case AlgorithmSelection:
		return "currentIndex", "minIndex"
	case AlgorithmCounting:
		return "currentIndex", ""
	}
	return "primaryIndex", "secondaryIndex"
}

// Clone returns a deep copy that shares no slices with s.
func (s Step) Clone() Step {
	c := s
	c.Array = slices.Clone(s.Array)
	c.InitialArray = slices.Clone(s.InitialArray)
	c.SortedIndices = cloneIndices(s.SortedIndices)
	if s.Counting != nil {
		frame := *s.Counting
		frame.Counter = slices.Clone(s.Counting.Counter)
		frame.ArrayVisibility = slices.Clone(s.Counting.ArrayVisibility)
		c.Counting = &frame
	}
	return c
}

func cloneIndices(in []int) []int {
	if in == nil {
		return []int{}
	}
	return slices.Clone(in)
}

// stepJSON is the wire shape of a Step. Only the markers relevant to the algorithm are set.
type stepJSON struct {
	Algorithm       Algorithm `json:"algorithm"`
	Array           []int     `json:"array"`
	InitialArray    []int     `json:"initialArray"`
	CurrentIndex    *int      `json:"currentIndex,omitempty"`
	ComparingIndex  *int      `json:"comparingIndex,omitempty"`
	SwapIndex       *int      `json:"swapIndex,omitempty"`
	MinIndex        *int      `json:"minIndex,omitempty"`
	SortedIndices   []int     `json:"sortedIndices"`
	Completed       bool      `json:"completed"`
	Animation       Animation `json:"animation"`
	Counter         []int     `json:"counter,omitempty"`
	CounterBase     *int      `json:"counterBase,omitempty"`
	ArrayVisibility []int     `json:"arrayVisibility,omitempty"`
	ShowCountArray  *bool     `json:"showCountArray,omitempty"`
}

// MarshalJSON renders the algorithm specific marker names.
func (s Step) MarshalJSON() ([]byte, error) {
	out := stepJSON{
		Algorithm:     s.Algorithm,
		Array:         s.Array,
		InitialArray:  s.InitialArray,
		SortedIndices: cloneIndices(s.SortedIndices),
		Completed:     s.Completed,
		Animation:     s.Animation,
	}
	primary, secondary := s.Primary, s.Secondary
	switch s.Algorithm {
	case AlgorithmBubble:
		out.ComparingIndex, out.SwapIndex = &primary, &secondary
	case AlgorithmInsertion:
		out.CurrentIndex, out.ComparingIndex = &primary, &secondary
	case AlgorithmSelection:
		out.CurrentIndex, out.MinIndex = &primary, &secondary
	default:
		out.CurrentIndex = &primary
	}
	if s.Counting != nil {
		base, show := s.Counting.CounterBase, s.Counting.ShowCountArray
		out.Counter = s.Counting.Counter
		out.CounterBase = &base
		out.ArrayVisibility = s.Counting.ArrayVisibility
		out.ShowCountArray = &show
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *Step) UnmarshalJSON(data []byte) error {
	var in stepJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Step{
		Algorithm:     in.Algorithm,
		Array:         in.Array,
		InitialArray:  in.InitialArray,
		SortedIndices: cloneIndices(in.SortedIndices),
		Completed:     in.Completed,
		Animation:     in.Animation,
	}
	deref := func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	}
	switch in.Algorithm {
	case AlgorithmBubble:
		s.Primary, s.Secondary = deref(in.ComparingIndex), deref(in.SwapIndex)
	case AlgorithmInsertion:
		s.Primary, s.Secondary = deref(in.CurrentIndex), deref(in.ComparingIndex)
	case AlgorithmSelection:
		s.Primary, s.Secondary = deref(in.CurrentIndex), deref(in.MinIndex)
	default:
		s.Primary = deref(in.CurrentIndex)
		s.Secondary = s.Primary
	}
	if in.Counter != nil || in.ShowCountArray != nil {
		s.Counting = &CountingFrame{
			Counter:         in.Counter,
			CounterBase:     deref(in.CounterBase),
			ArrayVisibility: in.ArrayVisibility,
			ShowCountArray:  in.ShowCountArray != nil && *in.ShowCountArray,
		}
	}
	return nil
}
