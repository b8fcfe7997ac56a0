package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"flightrec/internal/device"
	"flightrec/internal/failure"
	"flightrec/internal/journal"
	"flightrec/internal/logging"
	"flightrec/internal/syncverify"
)

func (c *commandContext) runWaypointsList(ctx context.Context, args []string) error {
	if err := noArgs("waypoints list", args); err != nil {
		return err
	}
	return c.withDevice(ctx, func(ctx context.Context, dev device.Device) error {
		wps, err := dev.ListWaypoints(ctx)
		if err != nil {
			return err
		}
		return c.emit(wps, func(w io.Writer) error {
			if len(wps) == 0 {
				_, err := fmt.Fprintln(w, "No waypoints on device")
				return err
			}
			rows := make([][]string, 0, len(wps))
			for _, wp := range wps {
				rows = append(rows, []string{
					wp.Name,
					strconv.FormatFloat(wp.Lat, 'f', 5, 64),
					strconv.FormatFloat(wp.Lon, 'f', 5, 64),
					fmt.Sprintf("%.0f m", wp.Alt),
				})
			}
			return printTable(w, []string{"Name", "Latitude", "Longitude", "Altitude"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight})
		})
	})
}

// readWaypointFile loads a JSON array of {name, lat, lon, alt} records.
func readWaypointFile(path string) ([]device.Waypoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, failure.Wrap(failure.ErrValidation, "waypoints", "read", fmt.Sprintf("no such file %s", path), nil)
		}
		return nil, fmt.Errorf("read waypoint file: %w", err)
	}
	var records []device.Waypoint
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, failure.Wrap(failure.ErrValidation, "waypoints", "parse", filepath.Base(path), err)
	}
	for i, wp := range records {
		records[i].ID = ""
		switch {
		case strings.TrimSpace(wp.Name) == "":
			return nil, failure.Wrap(failure.ErrValidation, "waypoints", "parse", fmt.Sprintf("record %d has no name", i+1), nil)
		case math.Abs(wp.Lat) > 90 || math.Abs(wp.Lon) > 180:
			return nil, failure.Wrap(failure.ErrValidation, "waypoints", "parse",
				fmt.Sprintf("record %q has coordinates out of range", wp.Name), nil)
		}
	}
	return records, nil
}

type uploadSummary struct {
	Run      journal.Run       `json:"run"`
	Residual []journal.Outcome `json:"residual"`
}

func (c *commandContext) runWaypointsUpload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("waypoints upload FILE")
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	source, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	records, err := readWaypointFile(source)
	if err != nil {
		return err
	}
	ctx = logging.WithCommand(ctx, "waypoints upload")

	return c.withDevice(ctx, func(ctx context.Context, dev device.Device) error {
		logger := c.componentLogger(ctx, "sync")
		renderer := newProgressRenderer(c.stderr, "upload pass 1", logger)
		defer renderer.Done()

		verifier := &syncverify.Verifier{
			Endpoint: dev,
			Tolerance: syncverify.Tolerance{
				Distance:  cfg.Sync.ToleranceMeters,
				Elevation: cfg.Sync.ToleranceElevation,
			},
			MaxPasses: cfg.Sync.MaxPasses,
			Retry: syncverify.Retry{
				Attempts: cfg.Sync.UploadAttempts,
				Initial:  cfg.RetryInitial(),
			},
			Progress: renderer.Update,
			OnPass: func(s syncverify.PassSummary) {
				renderer.Phase(fmt.Sprintf("upload pass %d", s.Pass+1))
			},
			Warmup: c.warmup(cfg.Warmup()),
			Logger: logger,
		}

		started := time.Now()
		report, syncErr := verifier.Sync(ctx, records)
		renderer.Done()
		run, outcomes := journal.FromReport(source, started, time.Now(), report, syncErr)

		jerr := c.withJournal(func(j *journal.Journal) error {
			var err error
			run, err = j.RecordSync(context.WithoutCancel(ctx), run, outcomes)
			return err
		})
		if jerr != nil {
			logger.Warn("sync journal not updated", logging.Error(jerr))
		} else {
			logger.Info("sync recorded", slog.String("run_id", run.ID))
		}

		if err := c.emit(uploadSummary{Run: run, Residual: outcomes}, func(w io.Writer) error {
			return renderUploadSummary(w, run, outcomes)
		}); err != nil {
			return err
		}
		return syncErr
	})
}

func renderUploadSummary(w io.Writer, run journal.Run, outcomes []journal.Outcome) error {
	plural := "es"
	if run.Passes == 1 {
		plural = ""
	}
	if _, err := fmt.Fprintf(w, "%d waypoints: %d confirmed, %d missing, %d inaccurate after %d pass%s (max error %.1f m)\n",
		run.Total, run.Confirmed, run.Missing, run.Inaccurate, run.Passes, plural, run.MaxError); err != nil {
		return err
	}
	if len(outcomes) == 0 {
		return nil
	}
	return printTable(w, []string{"Name", "Status", "Distance", "Elevation Δ", "Error"}, outcomeRows(outcomes),
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight})
}

func outcomeRows(outcomes []journal.Outcome) [][]string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		distance, delta := "-", "-"
		if o.Status != syncverify.Missing.String() {
			distance = fmt.Sprintf("%.1f m", o.Distance)
			delta = fmt.Sprintf("%+d m", o.ElevationDelta)
		}
		rows = append(rows, []string{o.Name, o.Status, distance, delta, o.Error})
	}
	return rows
}

func (c *commandContext) runWaypointsDelete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("waypoints delete NAME...")
	}
	return c.withDevice(ctx, func(ctx context.Context, dev device.Device) error {
		for _, raw := range args {
			name := device.SanitizeName(raw)
			if err := dev.DeleteWaypoint(ctx, name); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(c.stdout, "Deleted %s\n", name); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *commandContext) runWaypointsClear(ctx context.Context, args []string) error {
	if err := noArgs("waypoints clear", args); err != nil {
		return err
	}
	return c.withDevice(ctx, func(ctx context.Context, dev device.Device) error {
		if err := dev.DeleteAllWaypoints(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(c.stdout, "Deleted all waypoints")
		return err
	})
}
