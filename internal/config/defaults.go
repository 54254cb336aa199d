package config

import (
	"os"
	"path/filepath"
)

const (
	defaultMarkerName           = "tmp_wacom_screen_switch_pid.pid"
	defaultLockTimeoutSeconds   = 15
	defaultCheckIntervalSeconds = 60
	defaultSignalOffset         = 1
	defaultHotplugMonitor       = true
	defaultStopTimeoutSeconds   = 5
	defaultXrandrBinary         = "xrandr"
	defaultXsetwacomBinary      = "xsetwacom"
	defaultToolTimeoutSeconds   = 10
	defaultProbeOutputs         = true
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultConfigPath           = "~/.config/tabletcycle/config.toml"
	projectConfigName           = "tabletcycle.toml"
	envLogLevel                 = "TABLETCYCLE_LOG_LEVEL"
	maxSignalOffset             = 30
	maxCheckIntervalSeconds     = 24 * 60 * 60
	maxToolTimeoutSeconds       = 300
	maxLockTimeoutSeconds       = 300
	maxStopTimeoutSeconds       = 300
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Marker: Marker{
			Path:               DefaultMarkerPath(),
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Coordinator: Coordinator{
			CheckIntervalSeconds: defaultCheckIntervalSeconds,
			SignalOffset:         defaultSignalOffset,
			HotplugMonitor:       defaultHotplugMonitor,
			StopTimeoutSeconds:   defaultStopTimeoutSeconds,
		},
		Tools: Tools{
			Xrandr:         defaultXrandrBinary,
			Xsetwacom:      defaultXsetwacomBinary,
			TimeoutSeconds: defaultToolTimeoutSeconds,
			ProbeOutputs:   defaultProbeOutputs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultMarkerPath returns the well-known marker location in the system
// temporary directory.
func DefaultMarkerPath() string {
	return filepath.Join(os.TempDir(), defaultMarkerName)
}
