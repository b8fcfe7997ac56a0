// Package device defines the abstract flight recorder that flightrec talks to.
//
// The Device interface covers the transactions the CLI needs (identity,
// tracklogs, waypoints, routes, airspace records, memory-mapped settings and
// firmware flashing). Concrete transports register themselves with Register
// and are selected by name through Open; the emulator driver in the emulator
// subpackage ships with flightrec.
//
// The package also holds the helpers shared by every driver: waypoint name
// sanitizing, setting validation, IGC manufacturer codes, and the
// cross-process lock that keeps a half-duplex link to one client at a time.
package device
