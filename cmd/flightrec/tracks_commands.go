package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"flightrec/internal/device"
	"flightrec/internal/rangeset"
	"flightrec/internal/tracklog"
)

type trackView struct {
	Index    int       `json:"index"`
	Start    time.Time `json:"start"`
	Duration string    `json:"duration"`
	Filename string    `json:"filename"`
}

// selectedTracks reads the track list and keeps those matched by the range
// arguments.
func selectedTracks(ctx context.Context, dev device.Device, args []string) ([]device.Track, map[int]string, error) {
	sets, err := rangeset.ParseAll(args)
	if err != nil {
		return nil, nil, err
	}
	id, err := dev.Identify(ctx)
	if err != nil {
		return nil, nil, err
	}
	tracks, err := dev.Tracks(ctx)
	if err != nil {
		return nil, nil, err
	}
	return tracklog.Select(tracks, sets), tracklog.Filenames(tracks, id), nil
}

func (c *commandContext) runTracksList(ctx context.Context, args []string) error {
	return c.withDevice(ctx, func(ctx context.Context, dev device.Device) error {
		tracks, names, err := selectedTracks(ctx, dev, args)
		if err != nil {
			return err
		}
		views := make([]trackView, 0, len(tracks))
		for _, t := range tracks {
			views = append(views, trackView{
				Index:    t.Index,
				Start:    t.Start.UTC(),
				Duration: formatDuration(t.Duration),
				Filename: names[t.Index],
			})
		}
		return c.emit(views, func(w io.Writer) error {
			if len(views) == 0 {
				_, err := fmt.Fprintln(w, "No tracklogs selected")
				return err
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{
					strconv.Itoa(v.Index),
					v.Start.Format("2006-01-02"),
					v.Start.Format("15:04:05"),
					v.Duration,
					v.Filename,
				})
			}
			return printTable(w, []string{"#", "Date", "Start (UTC)", "Duration", "File"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight})
		})
	})
}

type downloadResult struct {
	Index   int    `json:"index"`
	Path    string `json:"path"`
	Skipped bool   `json:"skipped"`
}

func (c *commandContext) runTracksDownload(ctx context.Context, args []string) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	return c.withDevice(ctx, func(ctx context.Context, dev device.Device) error {
		tracks, names, err := selectedTracks(ctx, dev, args)
		if err != nil {
			return err
		}
		logger := c.componentLogger(ctx, "tracklog")
		renderer := newProgressRenderer(c.stderr, "", logger)
		defer renderer.Done()
		downloader := &tracklog.Downloader{Progress: renderer.Update, Warmup: c.warmup(cfg.Warmup())}

		results := make([]downloadResult, 0, len(tracks))
		for _, t := range tracks {
			renderer.Phase(fmt.Sprintf("track %d/%d", t.Index, t.Count))
			path, skipped, err := downloader.Save(ctx, cfg.Paths.TrackDir, names[t.Index], t)
			if err != nil {
				return err
			}
			if skipped {
				logger.Info("tracklog already downloaded", slog.Int("track", t.Index), slog.String("path", path))
			} else {
				logger.Info("tracklog downloaded", slog.Int("track", t.Index), slog.String("path", path))
			}
			results = append(results, downloadResult{Index: t.Index, Path: path, Skipped: skipped})
		}
		renderer.Done()

		return c.emit(results, func(w io.Writer) error {
			if len(results) == 0 {
				_, err := fmt.Fprintln(w, "No tracklogs selected")
				return err
			}
			for _, r := range results {
				verb := "Saved"
				if r.Skipped {
					verb = "Skipped (exists)"
				}
				if _, err := fmt.Fprintf(w, "%s %s\n", verb, r.Path); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// warmup maps a configured warm-up of zero onto "disabled"; the estimator
// users treat zero as "use the default".
func (c *commandContext) warmup(d time.Duration) time.Duration {
	if d == 0 {
		return -1
	}
	return d
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

