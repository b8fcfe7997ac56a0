package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDevice(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if c.Progress.WarmupSeconds < 0 {
		return errors.New("progress.warmup_seconds must be non-negative")
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateDevice() error {
	if !slices.Contains(Drivers, c.Device.Driver) {
		return fmt.Errorf("device.driver %q is not supported (available: %s)", c.Device.Driver, strings.Join(Drivers, ", "))
	}
	if c.Device.TimeoutSeconds <= 0 {
		return errors.New("device.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.ToleranceMeters < 0 {
		return errors.New("sync.tolerance_meters must be non-negative")
	}
	if c.Sync.ToleranceElevation < 0 {
		return errors.New("sync.tolerance_elevation must be non-negative")
	}
	if c.Sync.MaxPasses <= 0 {
		return errors.New("sync.max_passes must be positive")
	}
	if c.Sync.UploadAttempts <= 0 {
		return errors.New("sync.upload_attempts must be positive")
	}
	if c.Sync.RetryInitialMillis < 0 {
		return errors.New("sync.retry_initial_ms must be non-negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
