package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/stopwatch"
)

const stopwatchHelp = "Commands: s start/stop, l lap, r reset, p print, q quit"

// Stopwatch drives a stopwatch from line commands.
type Stopwatch struct {
	in    *bufio.Scanner
	out   io.Writer
	term  *termenv.Output
	watch *stopwatch.Stopwatch
}

func NewStopwatch(in io.Reader, out io.Writer, watch *stopwatch.Stopwatch, opts ...termenv.OutputOption) *Stopwatch {
	return &Stopwatch{
		in:    bufio.NewScanner(in),
		out:   out,
		term:  termenv.NewOutput(out, opts...),
		watch: watch,
	}
}

func (that *Stopwatch) Run(ctx context.Context) error {
	that.print(stopwatchHelp + "\n")
	that.printElapsed()

	for ctx.Err() == nil && that.in.Scan() {
		switch strings.TrimSpace(that.in.Text()) {
		case "q", "quit":
			return nil
		case "s", "start", "stop":
			that.watch.Toggle()
			that.printElapsed()
		case "l", "lap":
			lap, ok := that.watch.Lap()
			if !ok {
				that.print("stopwatch is not running\n")
				continue
			}
			that.print(lap.String() + "\n")
		case "r", "reset":
			that.watch.Reset()
			that.printElapsed()
		case "p", "print":
			that.printElapsed()
			for _, lap := range that.watch.Laps() {
				that.print(lap.String() + "\n")
			}
		case "":
		default:
			that.print(stopwatchHelp + "\n")
		}
	}

	if err := that.in.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *Stopwatch) printElapsed() {
	state := "stopped"
	if that.watch.Running() {
		state = "running"
	}

	that.print(fmt.Sprintf("%s  %s\n",
		that.term.String(stopwatch.Format(that.watch.Elapsed())).Bold().String(),
		state,
	))
}

func (that *Stopwatch) print(text string) {
	_, _ = io.WriteString(that.out, text)
}
