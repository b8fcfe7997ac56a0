// Package emulator implements a flight recorder backed by a bbolt file.
//
// The emulated device stores what the hardware stores (identity, tracklogs,
// waypoints, routes, airspace records, memory-mapped settings and firmware)
// and applies the same precision limits: coordinates are held to 0.001 arc
// minute, elevations to whole metres and names to 17 ASCII characters.
//
// Faults make the lossy link reproducible. Each configured fault affects
// only the first upload of a waypoint name in a session, so a verify and
// retry loop repairs it on the next pass.
package emulator
