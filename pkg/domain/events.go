package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart    EventType = "run_start"
	EventRunComplete EventType = "run_complete"
	EventStepRead    EventType = "step_read"
	EventRunReset    EventType = "run_reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"` // empty for Produce calls outside a session
}

// RunEvent represents the start or end of a step recording.
type RunEvent struct {
	EventBase
	Algorithm  Algorithm     `json:"algorithm"`
	InputSize  int           `json:"input_size"`
	TotalSteps int           `json:"total_steps,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	Err        error         `json:"-"`
}

// StepEvent represents a read of one or more recorded steps.
type StepEvent struct {
	EventBase
	Algorithm Algorithm `json:"algorithm,omitempty"`
	Index     int       `json:"index"` // -1 when the whole timeline was read
	Err       error     `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart    func(context.Context, *RunEvent)
	OnRunComplete func(context.Context, *RunEvent)
	OnStepRead    func(context.Context, *StepEvent)
	OnRunReset    func(context.Context, *RunEvent)
}
