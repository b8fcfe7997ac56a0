package device

import (
	"fmt"

	"flightrec/internal/failure"
)

var (
	// ErrCommunication reports a garbled or rejected device transaction.
	ErrCommunication = fmt.Errorf("%w: communication failed", failure.ErrDevice)
	// ErrTimeout reports a transaction that got no answer in time.
	ErrTimeout = fmt.Errorf("%w: no response", failure.ErrTimeout)
	// ErrNotFound reports that no recorder is reachable at the configured path.
	ErrNotFound = fmt.Errorf("%w: no recorder", failure.ErrNoDevice)
)

// UnknownSettingError reports a setting key the recorder does not map.
type UnknownSettingError struct {
	Key string
}

func (e *UnknownSettingError) Error() string {
	return fmt.Sprintf("unknown setting %q (available: %s)", e.Key, settingList())
}

func (e *UnknownSettingError) Unwrap() error { return failure.ErrValidation }
