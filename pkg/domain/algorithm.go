package domain

import (
	"fmt"
	"strings"
)

// Algorithm identifies which engine produced a run.
type Algorithm string

const (
	AlgorithmBubble    Algorithm = "bubble"
	AlgorithmInsertion Algorithm = "insertion"
	AlgorithmSelection Algorithm = "selection"
	AlgorithmCounting  Algorithm = "counting"
)

// Algorithms lists every supported algorithm in a stable order.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmBubble, AlgorithmInsertion, AlgorithmSelection, AlgorithmCounting}
}

// ParseAlgorithm resolves a user supplied name. "count" is accepted as an alias of counting,
// matching the route names used by existing front ends.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bubble":
		return AlgorithmBubble, nil
	case "insertion":
		return AlgorithmInsertion, nil
	case "selection":
		return AlgorithmSelection, nil
	case "counting", "count":
		return AlgorithmCounting, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	return string(a)
}
