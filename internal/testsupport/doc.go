// Package testsupport holds helpers shared by flightrec's tests: temp-dir
// configs, seeded emulators, journals, and a scriptable waypoint endpoint.
package testsupport
