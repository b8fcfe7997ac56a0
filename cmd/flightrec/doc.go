// Command flightrec talks to a flight recorder: it lists and downloads
// tracklogs, uploads waypoints with verification, reads routes, airspace
// records and settings, and flashes firmware.
//
// Commands are resolved from abbreviated tokens, so "flightrec tr l 3-5"
// lists tracks three to five and "flightrec wa up points.json" uploads a
// waypoint file. Global flags must precede the command.
package main
