// Package journal records waypoint sync runs in a SQLite database.
//
// Every `waypoints upload` appends one run with its pass counts and the
// records that were still unconfirmed when the loop stopped, so `history`
// can show what needs attention without talking to the device again.
// Schema changes ship as embedded, ordered SQL migrations.
package journal
