package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"flightrec/internal/abbrev"
	"flightrec/internal/device"
	"flightrec/internal/failure"
)

func (c *commandContext) runInfo(ctx context.Context, args []string) error {
	if err := noArgs("info", args); err != nil {
		return err
	}
	return c.withDevice(ctx, func(ctx context.Context, dev device.Device) error {
		id, err := dev.Identify(ctx)
		if err != nil {
			return err
		}
		return c.emit(id, func(w io.Writer) error {
			return printTable(w, []string{"Field", "Value"}, [][]string{
				{"Manufacturer", id.Manufacturer},
				{"Model", id.Model},
				{"Pilot", id.PilotName},
				{"Serial number", id.SerialNumber},
				{"Software version", id.SoftwareVersion},
			}, nil)
		})
	})
}

func (c *commandContext) runRoutes(ctx context.Context, args []string) error {
	if err := noArgs("routes", args); err != nil {
		return err
	}
	return c.withDevice(ctx, func(ctx context.Context, dev device.Device) error {
		routes, err := dev.Routes(ctx)
		if err != nil {
			return err
		}
		return c.emit(routes, func(w io.Writer) error {
			if len(routes) == 0 {
				_, err := fmt.Fprintln(w, "No routes on device")
				return err
			}
			table := make([][]string, 0, len(routes))
			for _, r := range routes {
				names := make([]string, len(r.Points))
				for i, p := range r.Points {
					names[i] = p.ShortName
				}
				table = append(table, []string{strconv.Itoa(r.Index), r.Name, strings.Join(names, " → ")})
			}
			return printTable(w, []string{"#", "Name", "Points"}, table, []columnAlignment{alignRight})
		})
	})
}

func (c *commandContext) runAirspaces(ctx context.Context, args []string) error {
	if err := noArgs("ctr", args); err != nil {
		return err
	}
	return c.withDevice(ctx, func(ctx context.Context, dev device.Device) error {
		spaces, err := dev.Airspaces(ctx)
		if err != nil {
			return err
		}
		return c.emit(spaces, func(w io.Writer) error {
			if len(spaces) == 0 {
				_, err := fmt.Fprintln(w, "No airspace records on device")
				return err
			}
			rows := make([][]string, 0, len(spaces))
			for _, a := range spaces {
				rows = append(rows, []string{a.Name, a.Class, fmt.Sprintf("%d m", a.Floor), fmt.Sprintf("%d m", a.Ceiling)})
			}
			return printTable(w, []string{"Name", "Class", "Floor", "Ceiling"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight})
		})
	})
}

type setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// runGet prints one setting, or every setting when no key is given.
func (c *commandContext) runGet(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usageError("get [KEY]")
	}
	keys := device.SettingKeys()
	if len(args) == 1 {
		key, err := resolveSettingKey(args[0])
		if err != nil {
			return err
		}
		keys = []string{key}
	}
	return c.withDevice(ctx, func(ctx context.Context, dev device.Device) error {
		settings := make([]setting, 0, len(keys))
		for _, key := range keys {
			value, err := dev.Get(ctx, key)
			if err != nil {
				return err
			}
			settings = append(settings, setting{Key: key, Value: value})
		}
		return c.emit(settings, func(w io.Writer) error {
			if len(settings) == 1 {
				_, err := fmt.Fprintln(w, settings[0].Value)
				return err
			}
			rows := make([][]string, 0, len(settings))
			for _, s := range settings {
				rows = append(rows, []string{s.Key, s.Value})
			}
			return printTable(w, []string{"Key", "Value"}, rows, nil)
		})
	})
}

func (c *commandContext) runSet(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("set KEY VALUE")
	}
	key, err := resolveSettingKey(args[0])
	if err != nil {
		return err
	}
	value, err := device.ParseSettingValue(key, args[1])
	if err != nil {
		return err
	}
	return c.withDevice(ctx, func(ctx context.Context, dev device.Device) error {
		if err := dev.Set(ctx, key, value); err != nil {
			return err
		}
		c.componentLogger(ctx, "settings").Info("setting updated", "key", key, "value", value)
		_, err := fmt.Fprintf(c.stdout, "%s = %s\n", key, value)
		return err
	})
}

var settingKeys = abbrev.Build(device.SettingKeys())

// resolveSettingKey accepts any unique prefix of a setting key.
func resolveSettingKey(token string) (string, error) {
	key, result := settingKeys.Resolve(token)
	switch result {
	case abbrev.Resolved:
		return key, nil
	case abbrev.Ambiguous:
		return "", failure.Wrap(failure.ErrAmbiguous, "settings", "resolve",
			fmt.Sprintf("%q could be %s", token, strings.Join(settingKeys.Matches(token), ", ")), nil)
	default:
		return "", device.CheckSettingKey(token)
	}
}

func noArgs(command string, args []string) error {
	if len(args) > 0 {
		return failure.Wrap(failure.ErrValidation, "cli", command,
			fmt.Sprintf("unexpected arguments: %s", strings.Join(args, " ")), nil)
	}
	return nil
}

func usageError(usage string) error {
	return failure.Wrap(failure.ErrValidation, "cli", "usage", "flightrec "+usage, nil)
}
