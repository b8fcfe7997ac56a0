package logging

import "testing"

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(25)
	steps := []struct {
		percent float64
		phase   string
		want    bool
	}{
		{0, "upload", true},
		{10, "upload", false},
		{25, "upload", true},
		{49, "upload", false},
		{-1, "upload", false},
		{100, "upload", true},
		{100, "upload", false},
		{0, "verify", true},
		{5, "", false},
	}
	for i, step := range steps {
		if got := s.ShouldLog(step.percent, step.phase); got != step.want {
			t.Fatalf("step %d (%v%% %q): got %v, want %v", i, step.percent, step.phase, got, step.want)
		}
	}
}

func TestProgressSamplerDefaultsAndReset(t *testing.T) {
	s := NewProgressSampler(0)
	if s.bucketSize != 10 {
		t.Fatalf("bucketSize = %v, want 10", s.bucketSize)
	}
	s.ShouldLog(50, "download")
	s.Reset()
	if !s.ShouldLog(50, "download") {
		t.Fatal("reset sampler should emit again")
	}

	var nilSampler *ProgressSampler
	if !nilSampler.ShouldLog(1, "x") {
		t.Fatal("nil sampler should always emit")
	}
	nilSampler.Reset()
}
