package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeDevice(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TrackDir) == "" {
		c.Paths.TrackDir = defaultTrackDir
	}
	if c.Paths.TrackDir, err = expandPath(c.Paths.TrackDir); err != nil {
		return fmt.Errorf("paths.track_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDevice() error {
	if value, ok := os.LookupEnv("FLIGHTREC_DEVICE_DRIVER"); ok && strings.TrimSpace(value) != "" {
		c.Device.Driver = value
	}
	c.Device.Driver = strings.ToLower(strings.TrimSpace(c.Device.Driver))
	if c.Device.Driver == "" {
		c.Device.Driver = defaultDeviceDriver
	}

	if value, ok := os.LookupEnv("FLIGHTREC_DEVICE"); ok && strings.TrimSpace(value) != "" {
		c.Device.Path = value
	}
	c.Device.Path = strings.TrimSpace(c.Device.Path)
	if c.Device.Path == "" {
		c.Device.Path = defaultDevicePath
	}
	var err error
	if c.Device.Path, err = expandPath(c.Device.Path); err != nil {
		return fmt.Errorf("device.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
