// Package geo provides the spherical-earth distance used to compare a local
// waypoint with its copy on the device.
package geo
