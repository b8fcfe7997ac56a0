package tracklog

import (
	"fmt"
	"sort"
	"strings"

	"flightrec/internal/device"
	"flightrec/internal/rangeset"
)

// Filename returns the IGC long filename for a track, for example
// 2011-06-01-FLY-01234-02.IGC. flightOfDay is 1-based.
func Filename(track device.Track, identity device.Identity, flightOfDay int) string {
	manufacturer := identity.Manufacturer
	if manufacturer == "" {
		manufacturer = device.ManufacturerFor(identity.Model)
	}
	serial := strings.TrimSpace(identity.SerialNumber)
	if len(serial) < 5 {
		serial = strings.Repeat("0", 5-len(serial)) + serial
	}
	return fmt.Sprintf("%s-%s-%s-%02d.IGC",
		track.Start.UTC().Format("2006-01-02"),
		device.IGCCode(manufacturer),
		serial,
		flightOfDay,
	)
}

// Filenames assigns IGC filenames to every track, numbering flights on the
// same UTC day in start order.
func Filenames(tracks []device.Track, identity device.Identity) map[int]string {
	ordered := append([]device.Track(nil), tracks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.Before(ordered[j].Start)
	})
	perDay := map[string]int{}
	names := make(map[int]string, len(tracks))
	for _, track := range ordered {
		day := track.Start.UTC().Format("2006-01-02")
		perDay[day]++
		names[track.Index] = Filename(track, identity, perDay[day])
	}
	return names
}

// Select returns the tracks whose index lies in any of sets. An empty sets
// selects every track.
func Select(tracks []device.Track, sets []rangeset.Set) []device.Track {
	var out []device.Track
	for _, track := range tracks {
		if rangeset.AnyContains(sets, track.Index) {
			out = append(out, track)
		}
	}
	return out
}
