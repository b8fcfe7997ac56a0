package emulator_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"flightrec/internal/device"
	"flightrec/internal/device/emulator"
	"flightrec/internal/failure"
	"flightrec/internal/geo"
)

var testIdentity = device.Identity{
	Manufacturer:    device.Flytec,
	Model:           "6030",
	PilotName:       "Test Pilot",
	SerialNumber:    "01234",
	SoftwareVersion: "3.32",
}

func newEmulator(t *testing.T, faults emulator.Faults) *emulator.Device {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emulator.db")
	if err := emulator.Create(path, testIdentity, faults); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dev, err := emulator.Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = dev.Close() })
	return dev
}

func TestOpenMissingEmulator(t *testing.T) {
	_, err := emulator.Open(filepath.Join(t.TempDir(), "absent.db"), nil)
	if !errors.Is(err, device.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if failure.Fatal(err) {
		t.Fatal("a missing emulator should not be fatal")
	}
}

func TestCreateRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emulator.db")
	if err := emulator.Create(path, testIdentity, emulator.Faults{}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := emulator.Create(path, testIdentity, emulator.Faults{}); err == nil {
		t.Fatal("expected error creating over an existing emulator")
	}
}

func TestOpenThroughRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emulator.db")
	if err := emulator.Create(path, testIdentity, emulator.Faults{}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dev, err := device.Open(emulator.DriverName, path, nil)
	if err != nil {
		t.Fatalf("device.Open: %v", err)
	}
	defer dev.Close()
	id, err := dev.Identify(context.Background())
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if id != testIdentity {
		t.Fatalf("Identify = %+v, want %+v", id, testIdentity)
	}
}

func TestUploadQuantizesLikeHardware(t *testing.T) {
	dev := newEmulator(t, emulator.Faults{})
	ctx := context.Background()
	src := device.Waypoint{Name: "Montmin Décollage Nord", Lat: 45.8123456789, Lon: -6.2345678912, Alt: 1234.9}
	id, err := dev.UploadWaypoint(ctx, src)
	if err != nil {
		t.Fatalf("UploadWaypoint: %v", err)
	}
	if id != "Montmin Decollage" {
		t.Fatalf("identity = %q", id)
	}
	list, err := dev.ListWaypoints(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListWaypoints = %v, %v", list, err)
	}
	got := list[0]
	if got.ID != id || got.Alt != 1234 {
		t.Fatalf("stored waypoint %+v", got)
	}
	if d := geo.Distance(src.Lat, src.Lon, got.Lat, got.Lon); d > 2 {
		t.Fatalf("quantization moved waypoint %.2f m", d)
	}
}

func TestFaultsAffectFirstUploadOfNameOnly(t *testing.T) {
	dev := newEmulator(t, emulator.Faults{TimeoutEvery: 3, DriftEvery: 4, DriftMeters: 50, DropEvery: 5})
	ctx := context.Background()
	names := []string{"A", "B", "C", "D", "E"}
	var timeouts int
	for _, name := range names {
		_, err := dev.UploadWaypoint(ctx, device.Waypoint{Name: name, Lat: 46, Lon: 7, Alt: 1000})
		if errors.Is(err, device.ErrTimeout) {
			timeouts++
		} else if err != nil {
			t.Fatalf("upload %s: %v", name, err)
		}
	}
	if timeouts != 1 {
		t.Fatalf("timeouts = %d, want 1", timeouts)
	}
	list, err := dev.ListWaypoints(ctx)
	if err != nil {
		t.Fatalf("ListWaypoints: %v", err)
	}
	stored := map[string]device.Waypoint{}
	for _, wp := range list {
		stored[wp.ID] = wp
	}
	if _, ok := stored["E"]; ok {
		t.Fatal("E should have been dropped")
	}
	if _, ok := stored["C"]; ok {
		t.Fatal("C should have timed out")
	}
	if d := geo.Distance(46, 7, stored["D"].Lat, stored["D"].Lon); d < 45 || d > 55 {
		t.Fatalf("D drift = %.1f m, want about 50", d)
	}

	// A second round repairs every fault.
	for _, name := range names {
		if _, err := dev.UploadWaypoint(ctx, device.Waypoint{Name: name, Lat: 46, Lon: 7, Alt: 1000}); err != nil {
			t.Fatalf("retry %s: %v", name, err)
		}
	}
	list, _ = dev.ListWaypoints(ctx)
	if len(list) != 5 {
		t.Fatalf("after retry %d waypoints stored, want 5", len(list))
	}
	for _, wp := range list {
		if geo.Distance(46, 7, wp.Lat, wp.Lon) > 1 {
			t.Fatalf("waypoint %s still displaced", wp.ID)
		}
	}
}

func TestReuploadIsNeverFaulted(t *testing.T) {
	dev := newEmulator(t, emulator.Faults{TimeoutEvery: 1})
	ctx := context.Background()
	for round := 1; round <= 3; round++ {
		for _, name := range []string{"North", "South"} {
			_, err := dev.UploadWaypoint(ctx, device.Waypoint{Name: name, Lat: 46, Lon: 7})
			switch {
			case round == 1 && !errors.Is(err, device.ErrTimeout):
				t.Fatalf("round 1 %s: want timeout, got %v", name, err)
			case round > 1 && err != nil:
				t.Fatalf("round %d %s: %v", round, name, err)
			}
		}
	}
	if _, err := dev.UploadWaypoint(ctx, device.Waypoint{Name: "East", Lat: 46, Lon: 7}); !errors.Is(err, device.ErrTimeout) {
		t.Fatalf("new name East: want timeout, got %v", err)
	}
}

func TestDeleteWaypoints(t *testing.T) {
	dev := newEmulator(t, emulator.Faults{})
	ctx := context.Background()
	for _, name := range []string{"One", "Two", "Three"} {
		if _, err := dev.UploadWaypoint(ctx, device.Waypoint{Name: name}); err != nil {
			t.Fatalf("upload: %v", err)
		}
	}
	if err := dev.DeleteWaypoint(ctx, "Two"); err != nil {
		t.Fatalf("DeleteWaypoint: %v", err)
	}
	if err := dev.DeleteWaypoint(ctx, "Two"); !errors.Is(err, failure.ErrNotFound) {
		t.Fatalf("second delete error = %v, want not found", err)
	}
	list, _ := dev.ListWaypoints(ctx)
	if len(list) != 2 {
		t.Fatalf("got %d waypoints, want 2", len(list))
	}
	if err := dev.DeleteAllWaypoints(ctx); err != nil {
		t.Fatalf("DeleteAllWaypoints: %v", err)
	}
	list, _ = dev.ListWaypoints(ctx)
	if len(list) != 0 {
		t.Fatalf("got %d waypoints after clear", len(list))
	}
}

func TestSeedDemoAndTrackLog(t *testing.T) {
	dev := newEmulator(t, emulator.Faults{})
	ctx := context.Background()
	if err := dev.SeedDemo(testIdentity); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
	tracks, err := dev.Tracks(ctx)
	if err != nil {
		t.Fatalf("Tracks: %v", err)
	}
	if len(tracks) != 3 {
		t.Fatalf("got %d tracks, want 3", len(tracks))
	}
	if tracks[0].Index != 1 || tracks[2].Index != 3 || tracks[1].Count != 3 {
		t.Fatalf("unexpected track numbering: %+v", tracks)
	}
	var lines []string
	for line, err := range tracks[2].Log(ctx) {
		if err != nil {
			t.Fatalf("Log: %v", err)
		}
		lines = append(lines, line)
	}
	if lines[0] != "AFLY01234" || lines[1] != "HFDTE040611" {
		t.Fatalf("unexpected header %q", lines[:2])
	}
	// 18 minutes at 10 second steps plus the final fix.
	var fixes int
	for _, line := range lines {
		if strings.HasPrefix(line, "B") {
			fixes++
		}
	}
	if fixes != 109 {
		t.Fatalf("got %d B records, want 109", fixes)
	}
	if lines[3] != "B1140004551000N00612000EA0120001215" {
		t.Fatalf("first fix = %q", lines[3])
	}

	routes, err := dev.Routes(ctx)
	if err != nil || len(routes) != 1 || len(routes[0].Points) != 3 {
		t.Fatalf("Routes = %+v, %v", routes, err)
	}
	airspaces, err := dev.Airspaces(ctx)
	if err != nil || len(airspaces) != 2 || airspaces[0].Name != "CTR GENEVE" {
		t.Fatalf("Airspaces = %+v, %v", airspaces, err)
	}
}

func TestSettings(t *testing.T) {
	dev := newEmulator(t, emulator.Faults{})
	ctx := context.Background()
	got, err := dev.Get(ctx, "pilot_name")
	if err != nil || got != "Test Pilot" {
		t.Fatalf("Get pilot_name = %q, %v", got, err)
	}
	if err := dev.Set(ctx, "pilot_name", "Jöhn Q. Longname-Flyer"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	id, _ := dev.Identify(ctx)
	if id.PilotName != "John Q. Longname" {
		t.Fatalf("identity pilot = %q", id.PilotName)
	}
	if err := dev.Set(ctx, "recording_interval", "300"); !errors.Is(err, failure.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := dev.Get(ctx, "altitude"); !errors.Is(err, failure.ErrValidation) {
		t.Fatalf("expected unknown setting error, got %v", err)
	}
}

func TestFlashReportsProgress(t *testing.T) {
	dev := newEmulator(t, emulator.Faults{})
	image := make([]byte, 10000)
	var steps []device.FlashProgress
	for p, err := range dev.Flash(context.Background(), image) {
		if err != nil {
			t.Fatalf("Flash: %v", err)
		}
		steps = append(steps, p)
	}
	if len(steps) != 3 || steps[2].Done != 10000 || steps[0].Total != 10000 {
		t.Fatalf("unexpected progress %+v", steps)
	}
	if n, _ := dev.FirmwareSize(); n != 10000 {
		t.Fatalf("FirmwareSize = %d", n)
	}
}

func TestExpiredContextTimesOut(t *testing.T) {
	dev := newEmulator(t, emulator.Faults{})
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	if _, err := dev.ListWaypoints(ctx); !errors.Is(err, device.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
