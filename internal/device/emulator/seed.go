package emulator

import (
	"fmt"
	"math"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"flightrec/internal/device"
)

// AddTrack stores a tracklog with the given IGC lines and returns its index.
func (d *Device) AddTrack(start time.Time, duration time.Duration, lines []string) (int, error) {
	var index int
	err := d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTracks)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		index = int(seq)
		rec := trackRecord{Index: index, Start: start.UTC(), Duration: duration}
		if err := putJSON(b, indexKey(index), rec); err != nil {
			return err
		}
		return tx.Bucket(bucketLines).Put(indexKey(index), []byte(strings.Join(lines, "\n")+"\n"))
	})
	if err != nil {
		return 0, fmt.Errorf("add track: %w", err)
	}
	return index, nil
}

// AddRoute stores a route under its index.
func (d *Device) AddRoute(route device.Route) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(bucketRoutes), indexKey(route.Index), route)
	})
}

// AddAirspace stores an airspace record under its name.
func (d *Device) AddAirspace(a device.Airspace) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(bucketAirspaces), []byte(a.Name), a)
	})
}

// SeedDemo fills an empty emulator with a few flights, a route and airspace
// records so every listing has something to show.
func (d *Device) SeedDemo(identity device.Identity) error {
	flights := []struct {
		start    time.Time
		duration time.Duration
	}{
		{time.Date(2011, 6, 1, 10, 12, 0, 0, time.UTC), 42 * time.Minute},
		{time.Date(2011, 6, 1, 14, 3, 30, 0, time.UTC), 1*time.Hour + 5*time.Minute},
		{time.Date(2011, 6, 4, 11, 40, 0, 0, time.UTC), 18 * time.Minute},
	}
	for _, f := range flights {
		lines := SyntheticIGC(identity, f.start, f.duration, 10*time.Second)
		if _, err := d.AddTrack(f.start, f.duration, lines); err != nil {
			return err
		}
	}
	route := device.Route{
		Index: 1,
		Name:  "Annecy triangle",
		Points: []device.RoutePoint{
			{ShortName: "A01", LongName: "Planfait"},
			{ShortName: "A02", LongName: "Dents de Lanfon"},
			{ShortName: "A03", LongName: "Doussard"},
		},
	}
	if err := d.AddRoute(route); err != nil {
		return err
	}
	for _, a := range []device.Airspace{
		{Name: "CTR GENEVE", Class: "D", Floor: 0, Ceiling: 1700},
		{Name: "TMA ANNECY", Class: "E", Floor: 1500, Ceiling: 3500},
	} {
		if err := d.AddAirspace(a); err != nil {
			return err
		}
	}
	return nil
}

// SyntheticIGC produces a minimal IGC log: a manufacturer record, a date
// header and one B record per step drifting slowly east.
func SyntheticIGC(identity device.Identity, start time.Time, duration, step time.Duration) []string {
	code := device.IGCCode(device.ManufacturerFor(identity.Model))
	lines := []string{
		fmt.Sprintf("A%s%s", code, identity.SerialNumber),
		"HFDTE" + start.UTC().Format("020106"),
		"HFPLTPILOT:" + identity.PilotName,
	}
	if step <= 0 {
		step = time.Second
	}
	for offset := time.Duration(0); offset <= duration; offset += step {
		at := start.Add(offset).UTC()
		frac := offset.Seconds() / math.Max(duration.Seconds(), 1)
		lat := 45.85 + 0.01*math.Sin(frac*math.Pi)
		lon := 6.2 + 0.05*frac
		alt := 1200 + int(600*math.Sin(frac*math.Pi))
		lines = append(lines, "B"+at.Format("150405")+igcCoordinate(lat, 2, "NS")+igcCoordinate(lon, 3, "EW")+
			fmt.Sprintf("A%05d%05d", alt, alt+15))
	}
	return lines
}

func igcCoordinate(deg float64, width int, hemispheres string) string {
	hemi := hemispheres[0]
	if deg < 0 {
		hemi = hemispheres[1]
		deg = -deg
	}
	thousandths := int(math.Round(deg * thousandthsPerDegree))
	whole := thousandths / thousandthsPerDegree
	minutes := thousandths % thousandthsPerDegree
	return fmt.Sprintf("%0*d%05d%c", width, whole, minutes, hemi)
}
