package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

var validTabletTypes = map[string]struct{}{
	"STYLUS": {},
	"ERASER": {},
	"PAD":    {},
	"TOUCH":  {},
	"CURSOR": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMarker(); err != nil {
		return err
	}
	if err := c.validateCoordinator(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMarker() error {
	if c.Marker.Path == "" {
		return errors.New("marker.path must be set")
	}
	if !filepath.IsAbs(c.Marker.Path) {
		return fmt.Errorf("marker.path must be absolute, got %q", c.Marker.Path)
	}
	if c.Marker.LockTimeoutSeconds <= 0 || c.Marker.LockTimeoutSeconds > maxLockTimeoutSeconds {
		return fmt.Errorf("marker.lock_timeout_seconds must be between 1 and %d", maxLockTimeoutSeconds)
	}
	return nil
}

func (c *Config) validateCoordinator() error {
	if c.Coordinator.CheckIntervalSeconds <= 0 || c.Coordinator.CheckIntervalSeconds > maxCheckIntervalSeconds {
		return fmt.Errorf("coordinator.check_interval_seconds must be between 1 and %d", maxCheckIntervalSeconds)
	}
	if c.Coordinator.SignalOffset < 0 || c.Coordinator.SignalOffset > maxSignalOffset {
		return fmt.Errorf("coordinator.signal_offset must be between 0 and %d", maxSignalOffset)
	}
	if c.Coordinator.StopTimeoutSeconds <= 0 || c.Coordinator.StopTimeoutSeconds > maxStopTimeoutSeconds {
		return fmt.Errorf("coordinator.stop_timeout_seconds must be between 1 and %d", maxStopTimeoutSeconds)
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.TimeoutSeconds <= 0 || c.Tools.TimeoutSeconds > maxToolTimeoutSeconds {
		return fmt.Errorf("tools.timeout_seconds must be between 1 and %d", maxToolTimeoutSeconds)
	}
	for _, value := range c.Tools.TabletTypes {
		if _, ok := validTabletTypes[value]; !ok {
			return fmt.Errorf("tools.tablet_types: unsupported device type %q", value)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
