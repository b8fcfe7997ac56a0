package testsupport

import (
	"context"
	"math"
	"sort"

	"flightrec/internal/device"
)

// FakeEndpoint is an in-memory waypoint store with per-name fault budgets.
// Each budget counts down by one on every upload of that name; while it is
// positive the fault applies. Identities are the waypoint names.
type FakeEndpoint struct {
	Stored map[string]device.Waypoint

	Drop      map[string]int
	Shift     map[string]int
	Climb     map[string]int
	Timeout   map[string]int
	Fail      map[string]int
	ShiftBy   float64 // degrees of latitude
	ClimbBy   float64 // metres
	ListErr   error
	UploadLog []string
	Lists     int
}

// NewFakeEndpoint returns an empty endpoint.
func NewFakeEndpoint() *FakeEndpoint {
	return &FakeEndpoint{
		Stored:  map[string]device.Waypoint{},
		Drop:    map[string]int{},
		Shift:   map[string]int{},
		Climb:   map[string]int{},
		Timeout: map[string]int{},
		Fail:    map[string]int{},
		ShiftBy: 0.001,
		ClimbBy: 3,
	}
}

func take(budget map[string]int, name string) bool {
	if budget[name] > 0 {
		budget[name]--
		return true
	}
	return false
}

// UploadWaypoint stores wp, applying any remaining fault budget.
func (f *FakeEndpoint) UploadWaypoint(ctx context.Context, wp device.Waypoint) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.UploadLog = append(f.UploadLog, wp.Name)
	if take(f.Timeout, wp.Name) {
		return "", device.ErrTimeout
	}
	if take(f.Fail, wp.Name) {
		return "", device.ErrCommunication
	}
	if take(f.Drop, wp.Name) {
		return wp.Name, nil
	}
	stored := wp
	stored.ID = wp.Name
	stored.Alt = math.Trunc(wp.Alt)
	if take(f.Shift, wp.Name) {
		stored.Lat += f.ShiftBy
	}
	if take(f.Climb, wp.Name) {
		stored.Alt += f.ClimbBy
	}
	f.Stored[wp.Name] = stored
	return wp.Name, nil
}

// ListWaypoints returns the stored waypoints sorted by identity.
func (f *FakeEndpoint) ListWaypoints(ctx context.Context) ([]device.Waypoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.Lists++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]device.Waypoint, 0, len(f.Stored))
	for _, wp := range f.Stored {
		out = append(out, wp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Uploads counts how often name was uploaded.
func (f *FakeEndpoint) Uploads(name string) int {
	n := 0
	for _, got := range f.UploadLog {
		if got == name {
			n++
		}
	}
	return n
}
