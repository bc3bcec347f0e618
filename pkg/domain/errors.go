package domain

import "errors"

// ErrInvalidStepIndex is returned when a step index falls outside [0, totalSteps).
var ErrInvalidStepIndex = errors.New("invalid step index")

// ErrInvalidInput is returned for requests that cannot be acted on: an empty or
// oversized array, a body that fails the schema, or an unusable session ID.
var ErrInvalidInput = errors.New("invalid input")

// ErrOutOfRangeValue is returned when a counting sort input does not fit the counter range.
var ErrOutOfRangeValue = errors.New("value outside counter range")

// ErrUnknownAlgorithm is returned when no engine is registered for an algorithm name.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// ErrRunNotFound is returned when a session has no stored run.
var ErrRunNotFound = errors.New("run not found")

// ErrRunCompleted is returned when a step is appended after the terminal step.
var ErrRunCompleted = errors.New("run already completed")
