/*
Package runner plays a recorded run back in a terminal or over JSON lines.

It is the bridge between a recorded domain.Run and whoever is watching. The Runner walks
the run's timeline, hands each step to a pluggable IOHandler and reads navigation
commands back. With autoplay on it advances on a timer instead.

# Key Components

  - Runner: The playback loop. Handles OS signals so Ctrl+C ends playback cleanly.
  - IOHandler: Decouples how frames are shown and commands are read.
  - TextHandler: Bar chart rendering for interactive terminals.
  - JSONHandler: One JSON object per line, for scripts and other programs.

# Commands

	<enter>, n   next step
	p            previous step
	f, l         first or last step
	g N, N       go to step N (1-based)
	a            autoplay to the end
	q            quit

# Usage

	run, _ := eng.Produce(ctx, "bubble", []int{5, 1, 4, 2, 8})

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	if err := r.Run(ctx, run); err != nil {
		log.Fatal(err)
	}
*/
package runner
