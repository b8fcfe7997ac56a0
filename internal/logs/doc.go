// Package logs reads back the flightrec log file for the "logs" command.
//
// Reading is bounded: only the requested number of trailing lines is kept in
// memory regardless of the file size.
package logs
