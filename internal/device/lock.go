package device

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrBusy reports that another process holds the device lock.
var ErrBusy = errors.New("device is in use by another flightrec process")

// Lock is an exclusive, cross-process claim on the recorder link.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes the lock file at path without blocking.
func AcquireLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire device lock: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
