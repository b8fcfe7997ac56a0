package emulator

import (
	"math"

	"flightrec/internal/geo"
)

// The recorder stores coordinates as degrees and minutes with three decimals.
const thousandthsPerDegree = 60 * 1000

var metresPerDegree = geo.EarthRadius * math.Pi / 180

func quantizeCoordinate(deg float64) float64 {
	return math.Round(deg*thousandthsPerDegree) / thousandthsPerDegree
}
