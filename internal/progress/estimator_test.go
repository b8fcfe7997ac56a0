package progress_test

import (
	"testing"
	"time"

	"flightrec/internal/progress"
)

var epoch = time.Date(2011, 6, 1, 10, 0, 0, 0, time.UTC)

func at(seconds float64) time.Time {
	return epoch.Add(time.Duration(seconds * float64(time.Second)))
}

func TestPercentageFloorsAndClamps(t *testing.T) {
	tests := []struct {
		done, total int64
		want        int
	}{
		{0, 10, 0},
		{1, 3, 33},
		{2, 3, 66},
		{999, 1000, 99},
		{10, 10, 100},
		{15, 10, 100},
		{-1, 10, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		e := progress.New()
		state, ok := e.Observe(tt.done, tt.total, epoch)
		if !ok {
			t.Fatalf("first observation should always emit")
		}
		if state.Percent != tt.want {
			t.Errorf("Observe(%d, %d) percent = %d, want %d", tt.done, tt.total, state.Percent, tt.want)
		}
	}
}

func TestETAUnknownDuringWarmup(t *testing.T) {
	e := progress.New(progress.WithWarmup(3 * time.Second))
	e.Start(epoch)
	state, _ := e.Observe(50, 100, at(2.9))
	if state.ETAKnown {
		t.Fatalf("ETA should be unknown during warm-up, got %v", state)
	}
	state, ok := e.Observe(60, 100, at(3))
	if !ok || !state.ETAKnown {
		t.Fatalf("ETA should be known after warm-up, got %v (emitted=%v)", state, ok)
	}
	// 60 done in 3s => 40 remaining at 20/s => 2s.
	if state.ETA != 2*time.Second {
		t.Fatalf("ETA = %v, want 2s", state.ETA)
	}
}

func TestETAUnknownWithoutProgress(t *testing.T) {
	e := progress.New(progress.WithWarmup(0))
	e.Start(epoch)
	state, _ := e.Observe(0, 100, at(10))
	if state.ETAKnown {
		t.Fatalf("ETA should be unknown when nothing is done, got %v", state)
	}
}

func TestPercentNeverDecreases(t *testing.T) {
	e := progress.New()
	e.Start(epoch)
	last := -1
	samples := []int64{0, 5, 5, 12, 40, 41, 77, 100}
	for i, done := range samples {
		state, ok := e.Observe(done, 100, at(float64(i)))
		if ok && state.Percent < last {
			t.Fatalf("percent decreased from %d to %d", last, state.Percent)
		}
		if ok {
			last = state.Percent
		}
	}
	// A regressing sample is held at the previous percentage.
	state, _ := e.Observe(10, 100, at(20))
	if state.Percent != 100 {
		t.Fatalf("percent = %d, want held at 100", state.Percent)
	}
}

func TestETAIsMonotoneAfterFirstEstimate(t *testing.T) {
	e := progress.New(progress.WithWarmup(time.Second))
	e.Start(epoch)

	// A stall in the middle would raise a naive estimate.
	samples := []struct {
		done int64
		t    float64
	}{
		{10, 1}, {20, 2}, {25, 6}, {26, 12}, {60, 13}, {90, 14}, {100, 15},
	}
	var prev time.Duration
	seen := false
	for _, s := range samples {
		state, ok := e.Observe(s.done, 100, at(s.t))
		if !ok || !state.ETAKnown {
			continue
		}
		if seen && state.ETA > prev {
			t.Fatalf("ETA increased from %v to %v at t=%v", prev, state.ETA, s.t)
		}
		prev, seen = state.ETA, true
	}
	if !seen {
		t.Fatal("expected at least one ETA")
	}
	if prev != 0 {
		t.Fatalf("final ETA = %v, want 0", prev)
	}
}

func TestStartResetsClamp(t *testing.T) {
	e := progress.New(progress.WithWarmup(0))
	e.Start(epoch)
	state, _ := e.Observe(90, 100, at(1))
	if !state.ETAKnown || state.ETA > time.Second {
		t.Fatalf("unexpected state %v", state)
	}

	e.Start(at(10))
	state, ok := e.Observe(1, 100, at(11))
	if !ok {
		t.Fatal("first observation after Start should emit")
	}
	if state.ETA != 99*time.Second {
		t.Fatalf("ETA = %v, want 99s after reset", state.ETA)
	}
}

func TestObserveSuppressesUnchangedStates(t *testing.T) {
	e := progress.New()
	e.Start(epoch)
	if _, ok := e.Observe(1, 1000, at(0.1)); !ok {
		t.Fatal("first sample should emit")
	}
	if _, ok := e.Observe(2, 1000, at(0.2)); ok {
		t.Fatal("same percentage during warm-up should not emit")
	}
	if _, ok := e.Observe(10, 1000, at(0.3)); !ok {
		t.Fatal("percentage change should emit")
	}
	last, ok := e.Last()
	if !ok || last.Percent != 1 {
		t.Fatalf("Last() = %v, %v", last, ok)
	}
}

func TestObserveStartsImplicitly(t *testing.T) {
	e := progress.New(progress.WithWarmup(time.Second))
	if state, _ := e.Observe(10, 100, at(5)); state.ETAKnown {
		t.Fatalf("implicit start should begin warm-up at the first sample, got %v", state)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state progress.State
		want  string
	}{
		{progress.State{Percent: 42}, "42% ETA --:--"},
		{progress.State{Percent: 42, ETA: 13 * time.Second, ETAKnown: true}, "42% ETA 0:13"},
		{progress.State{Percent: 7, ETA: time.Hour + 2*time.Minute + 3*time.Second, ETAKnown: true}, "7% ETA 1:02:03"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
