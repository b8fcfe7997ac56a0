package main

import (
	"context"
	"time"

	"flightrec/internal/device"
)

// timedDevice bounds every short device transaction by the configured
// timeout. Streaming calls (track logs and flashing) are left unbounded.
type timedDevice struct {
	device.Device
	timeout time.Duration
}

func timed(dev device.Device, timeout time.Duration) device.Device {
	if timeout <= 0 {
		return dev
	}
	return &timedDevice{Device: dev, timeout: timeout}
}

func (d *timedDevice) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}

func (d *timedDevice) Identify(ctx context.Context) (device.Identity, error) {
	ctx, cancel := d.bound(ctx)
	defer cancel()
	return d.Device.Identify(ctx)
}

func (d *timedDevice) Tracks(ctx context.Context) ([]device.Track, error) {
	ctx, cancel := d.bound(ctx)
	defer cancel()
	return d.Device.Tracks(ctx)
}

func (d *timedDevice) ListWaypoints(ctx context.Context) ([]device.Waypoint, error) {
	ctx, cancel := d.bound(ctx)
	defer cancel()
	return d.Device.ListWaypoints(ctx)
}

func (d *timedDevice) UploadWaypoint(ctx context.Context, wp device.Waypoint) (string, error) {
	ctx, cancel := d.bound(ctx)
	defer cancel()
	return d.Device.UploadWaypoint(ctx, wp)
}

func (d *timedDevice) DeleteWaypoint(ctx context.Context, name string) error {
	ctx, cancel := d.bound(ctx)
	defer cancel()
	return d.Device.DeleteWaypoint(ctx, name)
}

func (d *timedDevice) DeleteAllWaypoints(ctx context.Context) error {
	ctx, cancel := d.bound(ctx)
	defer cancel()
	return d.Device.DeleteAllWaypoints(ctx)
}

func (d *timedDevice) Routes(ctx context.Context) ([]device.Route, error) {
	ctx, cancel := d.bound(ctx)
	defer cancel()
	return d.Device.Routes(ctx)
}

func (d *timedDevice) Airspaces(ctx context.Context) ([]device.Airspace, error) {
	ctx, cancel := d.bound(ctx)
	defer cancel()
	return d.Device.Airspaces(ctx)
}

func (d *timedDevice) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := d.bound(ctx)
	defer cancel()
	return d.Device.Get(ctx, key)
}

func (d *timedDevice) Set(ctx context.Context, key, value string) error {
	ctx, cancel := d.bound(ctx)
	defer cancel()
	return d.Device.Set(ctx, key, value)
}
