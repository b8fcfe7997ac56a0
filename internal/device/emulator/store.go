package emulator

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"flightrec/internal/device"
)

var (
	bucketMeta      = []byte("meta")
	bucketWaypoints = []byte("waypoints")
	bucketTracks    = []byte("tracks")
	bucketLines     = []byte("tracklines")
	bucketRoutes    = []byte("routes")
	bucketAirspaces = []byte("airspaces")
	bucketSettings  = []byte("settings")
	bucketFirmware  = []byte("firmware")

	keyIdentity = []byte("identity")
	keyFaults   = []byte("faults")
	keyImage    = []byte("image")
)

var allBuckets = [][]byte{
	bucketMeta, bucketWaypoints, bucketTracks, bucketLines,
	bucketRoutes, bucketAirspaces, bucketSettings, bucketFirmware,
}

const openTimeout = time.Second

type trackRecord struct {
	Index    int           `json:"index"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
}

// Create initializes a new emulated recorder at path. It fails when the file
// already exists.
func Create(path string, identity device.Identity, faults Faults) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("emulator %s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat emulator: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create emulator directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return fmt.Errorf("create emulator: %w", err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		meta := tx.Bucket(bucketMeta)
		if err := putJSON(meta, keyIdentity, identity); err != nil {
			return err
		}
		if err := putJSON(meta, keyFaults, faults); err != nil {
			return err
		}
		settings := tx.Bucket(bucketSettings)
		defaults := map[string]string{
			"pilot_name":         identity.PilotName,
			"glider_id":          "",
			"glider_type":        "",
			"recording_interval": "1",
		}
		for key, value := range defaults {
			if err := settings.Put([]byte(key), []byte(value)); err != nil {
				return err
			}
		}
		return nil
	})
}

func putJSON(b *bolt.Bucket, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return b.Put(key, data)
}

func getJSON(b *bolt.Bucket, key []byte, value any) error {
	return decodeJSON(key, b.Get(key), value)
}

func decodeJSON(key, data []byte, value any) error {
	if data == nil {
		return fmt.Errorf("%w: missing %s record", device.ErrCommunication, key)
	}
	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("%w: decode %s: %v", device.ErrCommunication, key, err)
	}
	return nil
}

func indexKey(index int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(index))
	return key
}
