package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"flightrec/internal/logging"
	"flightrec/internal/progress"
)

// progressRenderer redraws a single status line on a terminal. Elsewhere it
// logs sampled progress so redirected output stays readable.
type progressRenderer struct {
	w       io.Writer
	label   string
	tty     bool
	drawn   bool
	sampler *logging.ProgressSampler
	logger  *slog.Logger
}

func newProgressRenderer(w io.Writer, label string, logger *slog.Logger) *progressRenderer {
	return &progressRenderer{
		w:       w,
		label:   label,
		tty:     isTerminal(w),
		sampler: logging.NewProgressSampler(25),
		logger:  logger,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Phase starts a new operation under label, e.g. one upload pass.
func (r *progressRenderer) Phase(label string) {
	r.finish()
	r.label = label
}

func (r *progressRenderer) Update(state progress.State) {
	if r.tty {
		fmt.Fprintf(r.w, "\r%-24s %s\x1b[K", r.label, state)
		r.drawn = true
		return
	}
	if r.sampler.ShouldLog(float64(state.Percent), r.label) && r.logger != nil {
		attrs := []any{
			slog.String("operation", r.label),
			slog.Int("percent", state.Percent),
		}
		if state.ETAKnown {
			attrs = append(attrs, slog.Duration("eta", state.ETA))
		}
		r.logger.Info("progress", attrs...)
	}
}

func (r *progressRenderer) finish() {
	if r.tty && r.drawn {
		fmt.Fprintln(r.w)
		r.drawn = false
	}
}

// Done ends the status line.
func (r *progressRenderer) Done() {
	r.finish()
}
