package device

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"flightrec/internal/failure"
)

// OpenFunc connects to a recorder at path.
type OpenFunc func(path string, logger *slog.Logger) (Device, error)

var (
	driversMu sync.RWMutex
	drivers   = map[string]OpenFunc{}
)

// Register makes a driver available to Open. It panics on duplicate names.
func Register(name string, open OpenFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if open == nil {
		panic("device: Register open func is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("device: Register called twice for driver " + name)
	}
	drivers[name] = open
}

// Drivers returns the registered driver names, sorted.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects to the recorder at path with the named driver.
func Open(driver, path string, logger *slog.Logger) (Device, error) {
	driversMu.RLock()
	open, ok := drivers[driver]
	driversMu.RUnlock()
	if !ok {
		return nil, failure.Wrap(failure.ErrNoDevice, "device", "open",
			fmt.Sprintf("no driver %q (available: %s)", driver, strings.Join(Drivers(), ", ")), nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return open(path, logger.With(slog.String("driver", driver)))
}
