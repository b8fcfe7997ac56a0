package testsupport

import (
	"path/filepath"
	"testing"

	"flightrec/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.TrackDir = filepath.Join(base, "flights")
	cfgVal.Device.Path = filepath.Join(base, "emulator.db")
	cfgVal.Sync.RetryInitialMillis = 1
	cfgVal.Progress.WarmupSeconds = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDevicePath overrides the device path on the test config.
func WithDevicePath(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Device.Path = path
	}
}

// WithTolerance overrides the sync tolerances on the test config.
func WithTolerance(meters float64, elevation int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sync.ToleranceMeters = meters
		b.cfg.Sync.ToleranceElevation = elevation
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
