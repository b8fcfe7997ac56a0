// Package failure defines the error taxonomy shared by the dispatcher, the
// range parser, the device layer, and the sync verifier.
//
// Components tag their errors with one of the exported markers so the CLI can
// decide, without knowing concrete types, whether a failure is the user's
// fault (reported and exit non-zero) or a device condition that simply means
// there was nothing to do.
package failure
