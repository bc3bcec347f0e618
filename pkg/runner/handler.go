package runner

import (
	"context"

	"github.com/aretw0/sortviz/pkg/domain"
)

// Frame is one step of a run as presented to the viewer.
type Frame struct {
	Index int         `json:"index"`
	Total int         `json:"total"`
	Step  domain.Step `json:"step"`
}

// IOHandler defines the strategy for interacting with the viewer.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents a frame.
	Output(ctx context.Context, frame Frame) error

	// Input reads a navigation command.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (run summary, errors, help) as markdown.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms markdown before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
