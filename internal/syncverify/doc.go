// Package syncverify uploads a batch of waypoints to a recorder and proves
// they arrived.
//
// Each pass uploads the pending records, reads the device's waypoint list
// once, and classifies every record as confirmed, missing, or inaccurate.
// Only missing and inaccurate records are retried. The loop stops when the
// batch is confirmed, when a pass leaves as many records pending as it
// started with, or after a bounded number of passes; the Report always
// separates what was confirmed from what was not.
package syncverify
