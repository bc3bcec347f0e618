package runner

import (
	"log/slog"
	"time"
)

// DefaultInterval is the delay between frames in autoplay.
const DefaultInterval = 500 * time.Millisecond

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithAutoplay advances through every step without waiting for commands.
func WithAutoplay(enabled bool) Option {
	return func(r *Runner) {
		r.Autoplay = enabled
	}
}

// WithInterval sets the autoplay delay between frames.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.Interval = d
		}
	}
}
