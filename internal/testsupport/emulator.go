package testsupport

import (
	"testing"

	"flightrec/internal/config"
	"flightrec/internal/device"
	"flightrec/internal/device/emulator"
)

// Identity is the recorder identity used by seeded test emulators.
var Identity = device.Identity{
	Manufacturer:    device.Flytec,
	Model:           "6030",
	PilotName:       "Test Pilot",
	SerialNumber:    "01234",
	SoftwareVersion: "3.32",
}

// NewEmulator creates a demo-seeded emulator at cfg.Device.Path. The device
// is closed again so the code under test can open it.
func NewEmulator(t testing.TB, cfg *config.Config, faults emulator.Faults) {
	t.Helper()

	if err := emulator.Create(cfg.Device.Path, Identity, faults); err != nil {
		t.Fatalf("emulator.Create: %v", err)
	}
	dev, err := emulator.Open(cfg.Device.Path, nil)
	if err != nil {
		t.Fatalf("emulator.Open: %v", err)
	}
	defer dev.Close()
	if err := dev.SeedDemo(Identity); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
}
