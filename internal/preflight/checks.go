package preflight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"flightrec/internal/config"
	"flightrec/internal/device"
	"flightrec/internal/journal"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCreatable passes when path is an accessible directory or when its
// nearest existing ancestor would let it be created.
func CheckCreatable(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckJournal opens the sync journal, applying migrations.
func CheckJournal(ctx context.Context, path string) Result {
	const name = "Sync journal"
	j, err := journal.Open(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer j.Close()
	runs, err := j.Runs(ctx, 0)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d runs)", path, len(runs))}
}

// CheckLock verifies that no other process holds the device lock.
func CheckLock(path string) Result {
	const name = "Device lock"
	lock, err := device.AcquireLock(path)
	if errors.Is(err, device.ErrBusy) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (held by another process)", path)}
	}
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if err := lock.Release(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: release: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (free)", path)}
}

// CheckDevice connects to the recorder and asks it to identify itself.
func CheckDevice(ctx context.Context, cfg *config.Config, logger *slog.Logger) Result {
	name := fmt.Sprintf("Recorder (%s)", cfg.Device.Driver)
	dev, err := device.Open(cfg.Device.Driver, cfg.Device.Path, logger)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Device.Path, err)}
	}
	defer dev.Close()

	idCtx, cancel := context.WithTimeout(ctx, cfg.DeviceTimeout())
	defer cancel()
	id, err := dev.Identify(idCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("identify failed (%v)", err)}
	}
	return Result{Name: name, Passed: true,
		Detail: fmt.Sprintf("%s %s, serial %s, firmware %s", id.Manufacturer, id.Model, id.SerialNumber, id.SoftwareVersion)}
}
