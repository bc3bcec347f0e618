package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/sortviz"
	"github.com/aretw0/sortviz/internal/presentation/tui"
	"github.com/aretw0/sortviz/pkg/runner"
	"github.com/muesli/termenv"
)

// PlayOptions holds the flags of the play command.
type PlayOptions struct {
	Algorithm string
	Array     []int
	JSON      bool
	Autoplay  bool
	Interval  time.Duration

	In  io.Reader
	Out io.Writer
}

// Play records a run and steps through it interactively. Nothing is stored: the run
// lives only for the duration of the playback.
func Play(ctx context.Context, app *App, opts PlayOptions) error {
	run, err := app.Engine.Produce(ctx, opts.Algorithm, opts.Array)
	if err != nil {
		return err
	}

	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(in, out)
	} else {
		handler = newTextHandler(in, out)
	}

	r := runner.NewRunner(
		runner.WithInputHandler(handler),
		runner.WithLogger(app.Logger),
		runner.WithAutoplay(opts.Autoplay),
		runner.WithInterval(opts.Interval),
	)
	if err := r.Run(ctx, run); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

// newTextHandler colours output and renders markdown only when out is a terminal.
func newTextHandler(in io.Reader, out io.Writer) *runner.TextHandler {
	f, ok := out.(*os.File)
	if !ok || !tui.IsTerminal(f) {
		return runner.NewTextHandler(in, out)
	}

	tui.PrintBanner(out, sortviz.Version)
	width := tui.Width(f, runner.DefaultWidth)
	return runner.NewTextHandler(in, out,
		runner.WithTextHandlerProfile(termenv.ColorProfile()),
		runner.WithTextHandlerWidth(width),
		runner.WithTextHandlerRenderer(tui.NewRenderer(width)),
	)
}
