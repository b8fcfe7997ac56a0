// Package tracklog names, selects and downloads IGC tracklogs from a
// recorder.
//
// Download progress is measured in seconds of flight: each B record's fix
// time is compared with the track start, so the ETA follows the log rather
// than the byte count, which the device does not report.
package tracklog
