package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"flightrec/internal/device"
)

// WriteWaypointFile writes waypoints as a JSON array and returns the path.
func WriteWaypointFile(t testing.TB, dir, name string, waypoints []device.Waypoint) string {
	t.Helper()

	path := filepath.Join(dir, name)
	data, err := json.Marshal(waypoints)
	if err != nil {
		t.Fatalf("encode waypoints: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Waypoints returns n distinct waypoints spread around a fixed point.
func Waypoints(n int) []device.Waypoint {
	names := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel", "India", "Juliett"}
	out := make([]device.Waypoint, 0, n)
	for i := range n {
		name := names[i%len(names)]
		if i >= len(names) {
			name += string(rune('0' + i/len(names)))
		}
		out = append(out, device.Waypoint{
			Name: name,
			Lat:  45.9 + float64(i)*0.01,
			Lon:  6.1 + float64(i)*0.02,
			Alt:  float64(900 + 37*i),
		})
	}
	return out
}
