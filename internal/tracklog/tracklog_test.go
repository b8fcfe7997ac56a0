package tracklog_test

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"flightrec/internal/device"
	"flightrec/internal/failure"
	"flightrec/internal/progress"
	"flightrec/internal/rangeset"
	"flightrec/internal/tracklog"
)

var identity = device.Identity{Manufacturer: device.Flytec, Model: "6030", SerialNumber: "1234"}

func lines(ls ...string) func(context.Context) iter.Seq2[string, error] {
	return func(context.Context) iter.Seq2[string, error] {
		return func(yield func(string, error) bool) {
			for _, l := range ls {
				if !yield(l, nil) {
					return
				}
			}
		}
	}
}

func TestFilenames(t *testing.T) {
	day1 := time.Date(2011, 6, 1, 0, 0, 0, 0, time.UTC)
	tracks := []device.Track{
		{Index: 1, Start: day1.Add(14 * time.Hour)},
		{Index: 2, Start: day1.Add(10 * time.Hour)},
		{Index: 3, Start: day1.Add(73 * time.Hour)},
	}
	got := tracklog.Filenames(tracks, identity)
	want := map[int]string{
		1: "2011-06-01-FLY-01234-02.IGC",
		2: "2011-06-01-FLY-01234-01.IGC",
		3: "2011-06-04-FLY-01234-01.IGC",
	}
	for index, name := range want {
		if got[index] != name {
			t.Errorf("track %d filename = %q, want %q", index, got[index], name)
		}
	}

	brauniger := device.Identity{Model: "COMPEO", SerialNumber: "98765"}
	if name := tracklog.Filename(tracks[0], brauniger, 3); name != "2011-06-01-BRA-98765-03.IGC" {
		t.Fatalf("Filename = %q", name)
	}
}

func TestSelect(t *testing.T) {
	tracks := make([]device.Track, 8)
	for i := range tracks {
		tracks[i].Index = i + 1
	}
	sets, err := rangeset.ParseAll([]string{"2-3", "7-"})
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	var got []int
	for _, track := range tracklog.Select(tracks, sets) {
		got = append(got, track.Index)
	}
	if want := []int{2, 3, 7, 8}; !equalInts(got, want) {
		t.Fatalf("Select = %v, want %v", got, want)
	}
	if all := tracklog.Select(tracks, nil); len(all) != 8 {
		t.Fatalf("empty selection should select all, got %d", len(all))
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDownloadTracksFlightTime(t *testing.T) {
	start := time.Date(2011, 6, 1, 23, 59, 0, 0, time.UTC)
	track := device.Track{
		Index:    1,
		Start:    start,
		Duration: 2 * time.Minute,
		Log: lines(
			"AFLY01234",
			"HFDTE010611",
			"B2359004551000N00612000EA0120001215",
			"B0000004551000N00612000EA0120001215",
			"B0000304551000N00612000EA0120001215",
			"B0001004551000N00612000EA0120001215",
			"G1234",
		),
	}
	var states []progress.State
	d := &tracklog.Downloader{Progress: func(s progress.State) { states = append(states, s) }, Warmup: -1}

	var buf bytes.Buffer
	n, err := d.Download(context.Background(), track, &buf)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if n != 7 {
		t.Fatalf("wrote %d lines, want 7", n)
	}
	if !strings.HasPrefix(buf.String(), "AFLY01234\r\nHFDTE010611\r\n") || !strings.HasSuffix(buf.String(), "G1234\r\n") {
		t.Fatalf("unexpected output %q", buf.String())
	}
	var percents []int
	for _, s := range states {
		percents = append(percents, s.Percent)
	}
	// 0s, then 60s and 90s after midnight, then 130s clamped to the duration.
	if want := []int{0, 50, 75, 100}; !equalInts(percents, want) {
		t.Fatalf("progress = %v, want %v", percents, want)
	}
}

func TestDownloadWithoutLog(t *testing.T) {
	_, err := (&tracklog.Downloader{}).Download(context.Background(), device.Track{Index: 4}, &bytes.Buffer{})
	if !errors.Is(err, failure.ErrUnsupported) {
		t.Fatalf("expected unsupported error, got %v", err)
	}
}

func TestDownloadPropagatesLogError(t *testing.T) {
	track := device.Track{
		Index: 2,
		Log: func(context.Context) iter.Seq2[string, error] {
			return func(yield func(string, error) bool) {
				if !yield("AFLY01234", nil) {
					return
				}
				yield("", device.ErrTimeout)
			}
		},
	}
	n, err := (&tracklog.Downloader{}).Download(context.Background(), track, &bytes.Buffer{})
	if !errors.Is(err, failure.ErrTimeout) || n != 1 {
		t.Fatalf("Download = %d, %v", n, err)
	}
}

func TestSaveWritesOnceAndSkipsExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "flights")
	track := device.Track{Index: 1, Duration: time.Minute, Log: lines("AFLY01234")}
	d := &tracklog.Downloader{}

	path, skipped, err := d.Save(context.Background(), dir, "a.IGC", track)
	if err != nil || skipped {
		t.Fatalf("Save = %q, %v, %v", path, skipped, err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "AFLY01234\r\n" {
		t.Fatalf("saved %q, %v", data, err)
	}
	if _, skipped, err := d.Save(context.Background(), dir, "a.IGC", track); err != nil || !skipped {
		t.Fatalf("second Save skipped=%v err=%v", skipped, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected only the IGC file, got %d entries", len(entries))
	}
}
