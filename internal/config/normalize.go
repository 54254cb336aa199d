package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeMarker(); err != nil {
		return err
	}
	c.normalizeTools()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeMarker() error {
	if strings.TrimSpace(c.Marker.Path) == "" {
		c.Marker.Path = DefaultMarkerPath()
	}
	var err error
	if c.Marker.Path, err = expandPath(strings.TrimSpace(c.Marker.Path)); err != nil {
		return fmt.Errorf("marker.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.Xrandr = strings.TrimSpace(c.Tools.Xrandr)
	if c.Tools.Xrandr == "" {
		c.Tools.Xrandr = defaultXrandrBinary
	}
	c.Tools.Xsetwacom = strings.TrimSpace(c.Tools.Xsetwacom)
	if c.Tools.Xsetwacom == "" {
		c.Tools.Xsetwacom = defaultXsetwacomBinary
	}

	types := make([]string, 0, len(c.Tools.TabletTypes))
	seen := make(map[string]struct{}, len(c.Tools.TabletTypes))
	for _, value := range c.Tools.TabletTypes {
		value = strings.ToUpper(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		types = append(types, value)
	}
	c.Tools.TabletTypes = types
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv(envLogLevel); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		expanded, err := expandPath(file)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
