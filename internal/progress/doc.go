// Package progress turns a stream of (done, total) samples into a percentage
// and an ETA that only change when something visible changes.
//
// The estimator knows nothing about what is progressing. Firmware flashing
// feeds it bytes, tracklog download feeds it seconds of flight, and waypoint
// upload feeds it record counts. Callers render the emitted states however
// they like.
package progress
