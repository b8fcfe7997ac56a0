package tracklog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"flightrec/internal/device"
	"flightrec/internal/failure"
	"flightrec/internal/progress"
)

const secondsPerDay = 24 * 60 * 60

// Downloader streams tracklogs and reports progress.
type Downloader struct {
	Progress progress.Func
	Warmup   time.Duration
	Clock    func() time.Time
}

// Download writes the IGC lines of track to w, one per line, and returns the
// number of lines written.
func (d *Downloader) Download(ctx context.Context, track device.Track, w io.Writer) (int, error) {
	if track.Log == nil {
		return 0, failure.Wrap(failure.ErrUnsupported, "tracklog", "download",
			fmt.Sprintf("track %d has no log", track.Index), nil)
	}
	est := progress.New(progress.WithWarmup(d.warmup()))
	total := int64(track.Duration / time.Second)
	est.Start(d.now())
	d.observe(est, 0, total)

	bw := bufio.NewWriter(w)
	lines := 0
	for line, err := range track.Log(ctx) {
		if err != nil {
			return lines, fmt.Errorf("read track %d: %w", track.Index, err)
		}
		if _, err := bw.WriteString(line + "\r\n"); err != nil {
			return lines, fmt.Errorf("write track %d: %w", track.Index, err)
		}
		lines++
		if elapsed, ok := fixOffset(line, track.Start); ok {
			d.observe(est, elapsed, total)
		}
	}
	if err := bw.Flush(); err != nil {
		return lines, fmt.Errorf("write track %d: %w", track.Index, err)
	}
	d.observe(est, total, total)
	return lines, nil
}

// Save downloads track into dir under name. Existing files are left alone
// and reported as skipped. The file appears only once fully written.
func (d *Downloader) Save(ctx context.Context, dir, name string, track device.Track) (string, bool, error) {
	target := filepath.Join(dir, name)
	if _, err := os.Stat(target); err == nil {
		return target, true, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", false, fmt.Errorf("stat %s: %w", target, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create track directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", false, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := d.Download(ctx, track, tmp); err != nil {
		tmp.Close()
		return "", false, err
	}
	if err := tmp.Close(); err != nil {
		return "", false, fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", false, fmt.Errorf("rename into place: %w", err)
	}
	return target, false, nil
}

func (d *Downloader) observe(est *progress.Estimator, done, total int64) {
	if state, ok := est.Observe(done, total, d.now()); ok && d.Progress != nil {
		d.Progress(state)
	}
}

func (d *Downloader) warmup() time.Duration {
	if d.Warmup == 0 {
		return progress.DefaultWarmup
	}
	return d.Warmup
}

func (d *Downloader) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

// fixOffset returns the seconds between start and the fix time of a B
// record. Fix times carry no date, so a log crossing midnight UTC wraps.
func fixOffset(line string, start time.Time) (int64, bool) {
	if len(line) < 7 || line[0] != 'B' {
		return 0, false
	}
	hh, err1 := strconv.Atoi(line[1:3])
	mm, err2 := strconv.Atoi(line[3:5])
	ss, err3 := strconv.Atoi(line[5:7])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	start = start.UTC()
	fix := int64(hh*3600 + mm*60 + ss)
	begin := int64(start.Hour()*3600 + start.Minute()*60 + start.Second())
	offset := fix - begin
	if offset < 0 {
		offset += secondsPerDay
	}
	return offset, true
}
