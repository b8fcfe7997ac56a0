package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"flightrec/internal/device"
	"flightrec/internal/device/emulator"
	"flightrec/internal/failure"
)

// runEmulatorInit creates an emulated recorder at device.path, optionally
// seeded with demo flights and configured to misbehave.
func (c *commandContext) runEmulatorInit(_ context.Context, args []string) error {
	set := pflag.NewFlagSet("emulator init", pflag.ContinueOnError)
	set.SetOutput(c.stderr)
	demo := set.Bool("demo", false, "Seed demo tracklogs, a route and airspace records")
	model := set.String("model", "6030", "Recorder model")
	pilot := set.String("pilot", "", "Pilot name stored on the recorder")
	serial := set.String("serial", "01234", "Serial number")
	firmware := set.String("firmware", "3.32", "Software version")
	var faults emulator.Faults
	set.IntVar(&faults.DropEvery, "drop-every", 0, "Silently drop every Nth new waypoint")
	set.IntVar(&faults.DriftEvery, "drift-every", 0, "Store every Nth new waypoint displaced")
	set.Float64Var(&faults.DriftMeters, "drift-meters", 50, "Displacement applied by --drift-every")
	set.IntVar(&faults.TimeoutEvery, "timeout-every", 0, "Time out on every Nth new waypoint")
	if err := set.Parse(args); err != nil {
		return failure.Wrap(failure.ErrValidation, "cli", "emulator init", err.Error(), nil)
	}
	if set.NArg() > 0 {
		return usageError("emulator init [--demo] [--model M] [--pilot NAME] [--drop-every N] ...")
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if cfg.Device.Driver != emulator.DriverName {
		return failure.Wrap(failure.ErrValidation, "cli", "emulator init",
			fmt.Sprintf("device.driver is %q, not %q", cfg.Device.Driver, emulator.DriverName), nil)
	}

	pilotName, err := device.ParseSettingValue("pilot_name", *pilot)
	if err != nil {
		return err
	}
	identity := device.Identity{
		Manufacturer:    device.ManufacturerFor(*model),
		Model:           *model,
		PilotName:       pilotName,
		SerialNumber:    *serial,
		SoftwareVersion: *firmware,
	}
	if err := emulator.Create(cfg.Device.Path, identity, faults); err != nil {
		return err
	}
	if *demo {
		dev, err := emulator.Open(cfg.Device.Path, c.ensureLogger())
		if err != nil {
			return err
		}
		defer dev.Close()
		if err := dev.SeedDemo(identity); err != nil {
			return err
		}
	}
	c.componentLogger(context.Background(), "emulator").Info("emulator created",
		slog.String("path", cfg.Device.Path), slog.Bool("demo", *demo))
	_, err = fmt.Fprintf(c.stdout, "Created %s %s emulator at %s\n", identity.Manufacturer, identity.Model, cfg.Device.Path)
	return err
}
