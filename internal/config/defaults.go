package config

const (
	defaultConfigPath         = "~/.config/flightrec/config.toml"
	defaultDataDir            = "~/.local/share/flightrec"
	defaultLogDir             = "~/.local/share/flightrec/logs"
	defaultTrackDir           = "~/flights"
	defaultDeviceDriver       = "emulator"
	defaultDevicePath         = "~/.local/share/flightrec/emulator.db"
	defaultDeviceTimeout      = 5
	defaultToleranceMeters    = 10.0
	defaultToleranceElevation = 0
	defaultMaxPasses          = 5
	defaultUploadAttempts     = 3
	defaultRetryInitialMillis = 200
	defaultWarmupSeconds      = 3.0
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Drivers lists the device drivers flightrec can open.
var Drivers = []string{"emulator"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			TrackDir: defaultTrackDir,
		},
		Device: Device{
			Driver:         defaultDeviceDriver,
			TimeoutSeconds: defaultDeviceTimeout,
		},
		Sync: Sync{
			ToleranceMeters:    defaultToleranceMeters,
			ToleranceElevation: defaultToleranceElevation,
			MaxPasses:          defaultMaxPasses,
			UploadAttempts:     defaultUploadAttempts,
			RetryInitialMillis: defaultRetryInitialMillis,
		},
		Progress: Progress{
			WarmupSeconds: defaultWarmupSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
