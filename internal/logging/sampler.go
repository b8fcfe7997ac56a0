package logging

import "strings"

// ProgressSampler thins progress lines for non-interactive output. It lets a
// line through when the phase changes or the percentage enters a new bucket.
type ProgressSampler struct {
	bucketSize float64
	lastPhase  string
	lastBucket int
}

// NewProgressSampler returns a sampler with buckets of bucketSize percent
// (default 10).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress update should be written. A negative
// percent means unknown and never opens a new bucket.
func (s *ProgressSampler) ShouldLog(percent float64, phase string) bool {
	if s == nil {
		return true
	}
	phase = strings.TrimSpace(phase)
	emit := false
	if phase != "" && phase != s.lastPhase {
		s.lastPhase = phase
		s.lastBucket = -1
		emit = true
	}
	if percent >= 0 {
		bucket := int(min(percent, 100) / s.bucketSize)
		if bucket > s.lastBucket {
			s.lastBucket = bucket
			emit = true
		}
	}
	return emit
}

// Reset forgets the last phase and bucket.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastPhase = ""
	s.lastBucket = -1
}
