package syncverify

import (
	"fmt"

	"flightrec/internal/device"
)

// Status classifies one record after a verify phase.
type Status int

const (
	Confirmed Status = iota
	Missing
	Inaccurate
)

func (s Status) String() string {
	switch s {
	case Confirmed:
		return "confirmed"
	case Missing:
		return "missing"
	case Inaccurate:
		return "inaccurate"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is the verdict on one record in one pass.
type Outcome struct {
	Record   device.Waypoint
	Identity string
	Status   Status
	// Distance and ElevationDelta are only meaningful when the record was
	// found on the device.
	Distance       float64
	ElevationDelta int
	// UploadErr is the last upload error when the record never got an
	// identity.
	UploadErr error
}

// PassSummary counts the outcomes of one pass.
type PassSummary struct {
	Pass       int
	Attempted  int
	Confirmed  int
	Missing    int
	Inaccurate int
}

// Report is the result of a sync.
type Report struct {
	Total          int
	ConfirmedCount int
	// Missing and Inaccurate hold the residual records after the final pass.
	Missing    []Outcome
	Inaccurate []Outcome
	// MaxObservedError is the largest distance in metres seen between a
	// source record and its device copy, over all passes.
	MaxObservedError float64
	Passes           []PassSummary
	Unresolved       bool
}

// Residual returns the missing and inaccurate outcomes together.
func (r Report) Residual() []Outcome {
	out := make([]Outcome, 0, len(r.Missing)+len(r.Inaccurate))
	out = append(out, r.Missing...)
	return append(out, r.Inaccurate...)
}
