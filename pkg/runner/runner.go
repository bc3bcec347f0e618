package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aretw0/sortviz/internal/logging"
	"github.com/aretw0/sortviz/pkg/domain"
)

// Runner plays a recorded run through an IOHandler.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Autoplay advances on a timer instead of reading commands.
	Autoplay bool

	// Interval is the autoplay delay between frames.
	Interval time.Duration
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run plays run until the viewer quits, input ends, ctx is cancelled or an interrupt
// signal arrives. Autoplay stops after the last step.
func (r *Runner) Run(ctx context.Context, run *domain.Run) error {
	total := run.Timeline.Len()
	if total == 0 {
		return fmt.Errorf("%w: run has no steps", domain.ErrInvalidStepIndex)
	}

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	if err := r.Handler.SystemOutput(signals.Context(), summaryMarkdown(run)); err != nil {
		return err
	}

	autoplay := r.Autoplay
	cur, render := 0, true
	for {
		currentCtx := signals.Context()
		if currentCtx.Err() != nil {
			r.Logger.Debug("playback interrupted", "step", cur)
			return nil
		}

		if render {
			step, err := run.Timeline.At(cur)
			if err != nil {
				return err
			}
			if err := r.Handler.Output(currentCtx, Frame{Index: cur, Total: total, Step: step}); err != nil {
				return err
			}
		}
		render = true

		if autoplay {
			if cur == total-1 {
				return nil
			}
			select {
			case <-currentCtx.Done():
				return nil
			case <-time.After(r.Interval):
			}
			cur++
			continue
		}

		input, err := r.Handler.Input(currentCtx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			// Ctrl+C can surface as a read error just before the signal context ends.
			signals.CheckRace()
			if signals.Context().Err() != nil {
				return nil
			}
			return err
		}

		cmd, err := parseCommand(input)
		if err != nil {
			r.Logger.Debug("rejected command", "input", input, "err", err)
			render = false
			if err := r.Handler.SystemOutput(currentCtx, err.Error()+"\n\n"+helpText); err != nil {
				return err
			}
			continue
		}

		switch cmd.kind {
		case cmdQuit:
			return nil
		case cmdHelp:
			render = false
			if err := r.Handler.SystemOutput(currentCtx, helpText); err != nil {
				return err
			}
		case cmdNext:
			if cur == total-1 {
				return nil
			}
			cur++
		case cmdPrev:
			cur = max(cur-1, 0)
		case cmdFirst:
			cur = 0
		case cmdLast:
			cur = total - 1
		case cmdPlay:
			autoplay = true
			render = false
		case cmdGoto:
			if cmd.index < 0 || cmd.index >= total {
				render = false
				msg := fmt.Sprintf("step %d is out of range, the run has %d steps", cmd.index+1, total)
				if err := r.Handler.SystemOutput(currentCtx, msg); err != nil {
					return err
				}
				continue
			}
			cur = cmd.index
		}
	}
}

// summaryMarkdown describes the run as a small markdown document.
func summaryMarkdown(run *domain.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s sort\n\n", run.Algorithm)
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| original | `%v` |\n", run.OriginalArray)
	fmt.Fprintf(&b, "| sorted | `%v` |\n", run.SortedArray)
	fmt.Fprintf(&b, "| steps | %d |\n", run.Timeline.Len())
	return b.String()
}
