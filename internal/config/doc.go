// Package config loads, normalizes, and validates flightrec configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as FLIGHTREC_DEVICE. The
// Config type gathers every knob the CLI needs: where tracklogs and the sync
// journal live, which device driver to open, and the tolerances the waypoint
// verifier applies.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
