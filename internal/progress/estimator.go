package progress

import (
	"fmt"
	"time"
)

// DefaultWarmup is how long an operation must run before its rate is trusted
// for an ETA.
const DefaultWarmup = 3 * time.Second

// State is what a progress display shows.
type State struct {
	Percent  int
	ETA      time.Duration
	ETAKnown bool
}

// String renders the state as "42% ETA 0:13", or "--:--" for an unknown ETA.
func (s State) String() string {
	if !s.ETAKnown {
		return fmt.Sprintf("%d%% ETA --:--", s.Percent)
	}
	return fmt.Sprintf("%d%% ETA %s", s.Percent, formatClock(s.ETA))
}

func formatClock(d time.Duration) string {
	secs := int64(d.Round(time.Second) / time.Second)
	if secs < 0 {
		secs = 0
	}
	h, m, s := secs/3600, (secs/60)%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Func receives emitted states.
type Func func(State)

// Option customizes an Estimator.
type Option func(*Estimator)

// WithWarmup overrides the warm-up period. Non-positive values disable it.
func WithWarmup(d time.Duration) Option {
	return func(e *Estimator) {
		if d < 0 {
			d = 0
		}
		e.warmup = d
	}
}

// Estimator accumulates samples for one operation at a time. It is owned by a
// single caller and is not safe for concurrent use.
type Estimator struct {
	warmup time.Duration

	started bool
	start   time.Time

	emitted bool
	last    State

	clamped bool
	bestETA time.Duration
}

// New constructs an estimator with the default warm-up.
func New(opts ...Option) *Estimator {
	e := &Estimator{warmup: DefaultWarmup}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a new operation, forgetting the previous state and ETA clamp.
func (e *Estimator) Start(now time.Time) {
	e.started = true
	e.start = now
	e.emitted = false
	e.last = State{}
	e.clamped = false
	e.bestETA = 0
}

// Observe records a sample and returns the new state when it differs
// visibly from the last emitted one. The second result is false when no
// redraw is needed. An operation is started implicitly on the first sample.
func (e *Estimator) Observe(done, total int64, now time.Time) (State, bool) {
	if !e.started {
		e.Start(now)
	}

	state := State{Percent: percent(done, total)}
	if e.emitted && state.Percent < e.last.Percent {
		state.Percent = e.last.Percent
	}

	elapsed := now.Sub(e.start)
	if elapsed >= e.warmup && done > 0 {
		remaining := total - done
		if remaining < 0 {
			remaining = 0
		}
		eta := time.Duration(float64(remaining) * float64(elapsed) / float64(done))
		if e.clamped && eta > e.bestETA {
			eta = e.bestETA
		}
		e.clamped = true
		e.bestETA = eta
		state.ETA = eta
		state.ETAKnown = true
	} else if e.clamped {
		state.ETA = e.bestETA
		state.ETAKnown = true
	}

	if e.emitted && sameBucket(state, e.last) {
		return e.last, false
	}
	e.emitted = true
	e.last = state
	return state, true
}

// Last returns the most recently emitted state.
func (e *Estimator) Last() (State, bool) {
	return e.last, e.emitted
}

func percent(done, total int64) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return int(100 * done / total)
}

func sameBucket(a, b State) bool {
	if a.Percent != b.Percent || a.ETAKnown != b.ETAKnown {
		return false
	}
	if !a.ETAKnown {
		return true
	}
	return a.ETA/time.Second == b.ETA/time.Second
}
