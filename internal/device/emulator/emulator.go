package emulator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"math"
	"os"
	"strings"

	bolt "go.etcd.io/bbolt"

	"flightrec/internal/device"
	"flightrec/internal/failure"
	"flightrec/internal/logging"
)

// DriverName is the name the emulator registers under.
const DriverName = "emulator"

const flashChunk = 4096

func init() {
	device.Register(DriverName, func(path string, logger *slog.Logger) (device.Device, error) {
		return Open(path, logger)
	})
}

// Faults configures deterministic link failures for waypoint uploads. A
// value of N affects every Nth upload transaction when it is the first
// upload of that name in the session; zero disables the fault.
type Faults struct {
	// DropEvery acknowledges the upload but never stores the waypoint.
	DropEvery int `json:"drop_every"`
	// DriftEvery stores the waypoint displaced north by DriftMeters.
	DriftEvery  int     `json:"drift_every"`
	DriftMeters float64 `json:"drift_meters"`
	// TimeoutEvery fails the transaction with device.ErrTimeout.
	TimeoutEvery int `json:"timeout_every"`
}

// Device is an emulated recorder. It satisfies device.Device.
type Device struct {
	db     *bolt.DB
	logger *slog.Logger
	faults Faults

	uploads int
	seen    map[string]bool
}

var _ device.Device = (*Device)(nil)

// Open connects to the emulated recorder at path. It returns an error
// wrapping device.ErrNotFound when no emulator exists there.
func Open(path string, logger *slog.Logger) (*Device, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", device.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat emulator: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, fmt.Errorf("%w: emulator %s is locked", device.ErrTimeout, path)
		}
		return nil, fmt.Errorf("%w: open emulator: %v", device.ErrCommunication, err)
	}
	d := &Device{db: db, logger: logger, seen: make(map[string]bool)}
	err = db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		if meta == nil {
			return fmt.Errorf("%w: %s is not an emulator", device.ErrCommunication, path)
		}
		if meta.Get(keyFaults) == nil {
			return nil
		}
		return getJSON(meta, keyFaults, &d.faults)
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("emulator opened", slog.String("path", path))
	return d, nil
}

// SetFaults replaces the fault configuration for this session.
func (d *Device) SetFaults(f Faults) {
	d.faults = f
	d.uploads = 0
	d.seen = make(map[string]bool)
}

// Close releases the database.
func (d *Device) Close() error {
	return d.db.Close()
}

func transact(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return device.ErrTimeout
		}
		return err
	}
	return nil
}

// Identify returns the recorder identity.
func (d *Device) Identify(ctx context.Context) (device.Identity, error) {
	var id device.Identity
	if err := transact(ctx); err != nil {
		return id, err
	}
	err := d.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketMeta), keyIdentity, &id)
	})
	return id, err
}

// Tracks lists stored tracklogs ordered by index.
func (d *Device) Tracks(ctx context.Context) ([]device.Track, error) {
	if err := transact(ctx); err != nil {
		return nil, err
	}
	var records []trackRecord
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTracks).ForEach(func(k, v []byte) error {
			var rec trackRecord
			if err := decodeJSON(k, v, &rec); err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	tracks := make([]device.Track, 0, len(records))
	for _, rec := range records {
		tracks = append(tracks, device.Track{
			Index:    rec.Index,
			Count:    len(records),
			Start:    rec.Start,
			Duration: rec.Duration,
			Log:      d.trackLog(rec.Index),
		})
	}
	return tracks, nil
}

func (d *Device) trackLog(index int) func(ctx context.Context) iter.Seq2[string, error] {
	return func(ctx context.Context) iter.Seq2[string, error] {
		return func(yield func(string, error) bool) {
			var lines []string
			err := d.db.View(func(tx *bolt.Tx) error {
				data := tx.Bucket(bucketLines).Get(indexKey(index))
				if data == nil {
					return fmt.Errorf("%w: track %d has no log", device.ErrCommunication, index)
				}
				lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
				return nil
			})
			if err != nil {
				yield("", err)
				return
			}
			for _, line := range lines {
				if err := transact(ctx); err != nil {
					yield("", err)
					return
				}
				if !yield(line, nil) {
					return
				}
			}
		}
	}
}

// ListWaypoints returns the stored waypoints ordered by name.
func (d *Device) ListWaypoints(ctx context.Context) ([]device.Waypoint, error) {
	if err := transact(ctx); err != nil {
		return nil, err
	}
	var out []device.Waypoint
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWaypoints).ForEach(func(k, v []byte) error {
			var wp device.Waypoint
			if err := decodeJSON(k, v, &wp); err != nil {
				return err
			}
			out = append(out, wp)
			return nil
		})
	})
	return out, err
}

// UploadWaypoint stores wp under its sanitized name and returns that name as
// the device identity. Uploading an existing name replaces the waypoint.
func (d *Device) UploadWaypoint(ctx context.Context, wp device.Waypoint) (string, error) {
	if err := transact(ctx); err != nil {
		return "", err
	}
	name := device.SanitizeName(wp.Name)
	if name == "" {
		return "", failure.Wrap(failure.ErrValidation, "emulator", "upload waypoint",
			fmt.Sprintf("name %q has no storable characters", wp.Name), nil)
	}
	d.uploads++
	stored := device.Waypoint{
		ID:   name,
		Name: name,
		Lat:  quantizeCoordinate(wp.Lat),
		Lon:  quantizeCoordinate(wp.Lon),
		Alt:  math.Trunc(wp.Alt),
	}

	if fault := d.fault(name); fault != "" {
		d.logger.Debug("emulator fault injected",
			slog.String("fault", fault),
			logging.Waypoint(name),
			slog.Int("upload", d.uploads),
		)
		switch fault {
		case "timeout":
			return "", device.ErrTimeout
		case "drop":
			return name, nil
		case "drift":
			stored.Lat = quantizeCoordinate(stored.Lat + d.faults.DriftMeters/metresPerDegree)
		}
	}

	err := d.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(bucketWaypoints), []byte(name), stored)
	})
	if err != nil {
		return "", fmt.Errorf("%w: store waypoint: %v", device.ErrCommunication, err)
	}
	return name, nil
}

// fault picks the fault for the current upload, if any. Only the first
// upload of a name in a session is eligible, so re-uploads always land.
func (d *Device) fault(name string) string {
	if d.seen[name] {
		return ""
	}
	d.seen[name] = true
	every := func(n int) bool { return n > 0 && d.uploads%n == 0 }
	var fault string
	switch {
	case every(d.faults.TimeoutEvery):
		fault = "timeout"
	case every(d.faults.DropEvery):
		fault = "drop"
	case every(d.faults.DriftEvery) && d.faults.DriftMeters != 0:
		fault = "drift"
	}
	return fault
}

// DeleteWaypoint removes the waypoint with the given name.
func (d *Device) DeleteWaypoint(ctx context.Context, name string) error {
	if err := transact(ctx); err != nil {
		return err
	}
	key := []byte(device.SanitizeName(name))
	return d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWaypoints)
		if b.Get(key) == nil {
			return failure.Wrap(failure.ErrNotFound, "emulator", "delete waypoint",
				fmt.Sprintf("no waypoint named %q", name), nil)
		}
		return b.Delete(key)
	})
}

// DeleteAllWaypoints clears the waypoint memory.
func (d *Device) DeleteAllWaypoints(ctx context.Context) error {
	if err := transact(ctx); err != nil {
		return err
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketWaypoints); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketWaypoints)
		return err
	})
}

// Routes lists stored routes ordered by index.
func (d *Device) Routes(ctx context.Context) ([]device.Route, error) {
	if err := transact(ctx); err != nil {
		return nil, err
	}
	var out []device.Route
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRoutes).ForEach(func(k, v []byte) error {
			var r device.Route
			if err := decodeJSON(k, v, &r); err != nil {
				return err
			}
			out = append(out, r)
			return nil
		})
	})
	return out, err
}

// Airspaces lists stored airspace records ordered by name.
func (d *Device) Airspaces(ctx context.Context) ([]device.Airspace, error) {
	if err := transact(ctx); err != nil {
		return nil, err
	}
	var out []device.Airspace
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAirspaces).ForEach(func(k, v []byte) error {
			var a device.Airspace
			if err := decodeJSON(k, v, &a); err != nil {
				return err
			}
			out = append(out, a)
			return nil
		})
	})
	return out, err
}

// Get reads a memory-mapped setting.
func (d *Device) Get(ctx context.Context, key string) (string, error) {
	if err := device.CheckSettingKey(key); err != nil {
		return "", err
	}
	if err := transact(ctx); err != nil {
		return "", err
	}
	var value string
	err := d.db.View(func(tx *bolt.Tx) error {
		value = string(tx.Bucket(bucketSettings).Get([]byte(key)))
		return nil
	})
	return value, err
}

// Set writes a memory-mapped setting after validating it.
func (d *Device) Set(ctx context.Context, key, value string) error {
	parsed, err := device.ParseSettingValue(key, value)
	if err != nil {
		return err
	}
	if err := transact(ctx); err != nil {
		return err
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketSettings).Put([]byte(key), []byte(parsed)); err != nil {
			return err
		}
		if key != "pilot_name" {
			return nil
		}
		meta := tx.Bucket(bucketMeta)
		var id device.Identity
		if err := getJSON(meta, keyIdentity, &id); err != nil {
			return err
		}
		id.PilotName = parsed
		return putJSON(meta, keyIdentity, id)
	})
}

// Flash writes a firmware image in fixed-size chunks, yielding progress
// after each chunk.
func (d *Device) Flash(ctx context.Context, image []byte) iter.Seq2[device.FlashProgress, error] {
	return func(yield func(device.FlashProgress, error) bool) {
		total := int64(len(image))
		if total == 0 {
			yield(device.FlashProgress{}, failure.Wrap(failure.ErrValidation, "emulator", "flash", "firmware image is empty", nil))
			return
		}
		written := make([]byte, 0, len(image))
		for offset := 0; offset < len(image); offset += flashChunk {
			if err := transact(ctx); err != nil {
				yield(device.FlashProgress{Done: int64(offset), Total: total}, err)
				return
			}
			end := min(offset+flashChunk, len(image))
			written = append(written, image[offset:end]...)
			if !yield(device.FlashProgress{Done: int64(end), Total: total}, nil) {
				return
			}
		}
		err := d.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketFirmware).Put(keyImage, written)
		})
		if err != nil {
			yield(device.FlashProgress{Done: total, Total: total}, fmt.Errorf("%w: store firmware: %v", device.ErrCommunication, err))
		}
	}
}

// FirmwareSize returns the size of the last flashed image.
func (d *Device) FirmwareSize() (int, error) {
	var n int
	err := d.db.View(func(tx *bolt.Tx) error {
		n = len(tx.Bucket(bucketFirmware).Get(keyImage))
		return nil
	})
	return n, err
}
