package domain

import "slices"

// Run is the result of recording one sort: the summary data plus every step.
type Run struct {
	Algorithm     Algorithm `json:"algorithm"`
	OriginalArray []int     `json:"originalArray"`
	SortedArray   []int     `json:"sortedArray"`
	Message       string    `json:"message"`
	Timeline      *Timeline `json:"steps"`
}

// InitSummary is the response to initializing a run.
type InitSummary struct {
	Message       string `json:"message"`
	OriginalArray []int  `json:"originalArray"`
	SortedArray   []int  `json:"sortedArray"`
	TotalSteps    int    `json:"totalSteps"`
}

// StepResponse wraps a single step with its position.
type StepResponse struct {
	Message    string `json:"message"`
	State      Step   `json:"state"`
	StepNumber int    `json:"stepNumber"`
}

// StepRetrievedMessage is the message attached to every StepResponse.
const StepRetrievedMessage = "step retrieved successfully"

// Summary reports the outcome of the run.
func (r *Run) Summary() InitSummary {
	return InitSummary{
		Message:       r.Message,
		OriginalArray: slices.Clone(r.OriginalArray),
		SortedArray:   slices.Clone(r.SortedArray),
		TotalSteps:    r.Timeline.Len(),
	}
}

// Step returns the step at index wrapped in a StepResponse.
func (r *Run) Step(index int) (*StepResponse, error) {
	s, err := r.Timeline.At(index)
	if err != nil {
		return nil, err
	}
	return &StepResponse{
		Message:    StepRetrievedMessage,
		State:      s,
		StepNumber: index,
	}, nil
}

// Clone returns a deep copy of the run.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	c := *r
	c.OriginalArray = slices.Clone(r.OriginalArray)
	c.SortedArray = slices.Clone(r.SortedArray)
	c.Timeline = r.Timeline.Clone()
	return &c
}
