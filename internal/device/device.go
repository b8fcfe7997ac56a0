package device

import (
	"context"
	"iter"
	"time"
)

// Waypoint is a named position held by the recorder. ID is the identity the
// device reports for the record; it is empty for records not yet uploaded.
type Waypoint struct {
	ID   string  `json:"id,omitempty"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Alt  float64 `json:"alt"`
}

// Identity describes the connected recorder.
type Identity struct {
	Manufacturer    string `json:"manufacturer"`
	Model           string `json:"model"`
	PilotName       string `json:"pilot_name"`
	SerialNumber    string `json:"serial_number"`
	SoftwareVersion string `json:"software_version"`
}

// Track is one tracklog stored on the recorder. Count is the total number of
// tracklogs the device reported alongside it.
type Track struct {
	Index    int           `json:"index"`
	Count    int           `json:"count"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`

	// Log streams the IGC lines of the track. It is nil for listings that do
	// not support download.
	Log func(ctx context.Context) iter.Seq2[string, error] `json:"-"`
}

// RoutePoint references a waypoint by its short and long names.
type RoutePoint struct {
	ShortName string `json:"short_name"`
	LongName  string `json:"long_name"`
}

// Route is an ordered list of route points.
type Route struct {
	Index  int          `json:"index"`
	Name   string       `json:"name"`
	Points []RoutePoint `json:"points"`
}

// Airspace is a controlled traffic region record.
type Airspace struct {
	Name    string `json:"name"`
	Class   string `json:"class"`
	Floor   int    `json:"floor"`
	Ceiling int    `json:"ceiling"`
}

// FlashProgress reports bytes written during a firmware flash.
type FlashProgress struct {
	Done  int64
	Total int64
}

// Device is a connected flight recorder. Implementations perform one
// transaction at a time and are not safe for concurrent use.
type Device interface {
	Identify(ctx context.Context) (Identity, error)
	Tracks(ctx context.Context) ([]Track, error)
	ListWaypoints(ctx context.Context) ([]Waypoint, error)
	UploadWaypoint(ctx context.Context, wp Waypoint) (string, error)
	DeleteWaypoint(ctx context.Context, name string) error
	DeleteAllWaypoints(ctx context.Context) error
	Routes(ctx context.Context) ([]Route, error)
	Airspaces(ctx context.Context) ([]Airspace, error)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Flash(ctx context.Context, image []byte) iter.Seq2[FlashProgress, error]
	Close() error
}
