// Package preflight provides readiness checks for the filesystem paths,
// the device lock and the recorder link that flightrec depends on.
//
// The CLI "doctor" command runs RunAll and prints each Result. Checks never
// mutate state beyond creating and releasing the lock file.
package preflight
