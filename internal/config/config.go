package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Marker contains the location of the coordinator marker and its startup lock.
type Marker struct {
	Path               string `toml:"path"`
	LockTimeoutSeconds int    `toml:"lock_timeout_seconds"`
}

// Coordinator contains timing and signalling settings for the long-lived process.
type Coordinator struct {
	CheckIntervalSeconds int  `toml:"check_interval_seconds"`
	SignalOffset         int  `toml:"signal_offset"`
	HotplugMonitor       bool `toml:"hotplug_monitor"`
	StopTimeoutSeconds   int  `toml:"stop_timeout_seconds"`
}

// Tools contains the external enumeration and mapping commands.
type Tools struct {
	Xrandr         string   `toml:"xrandr"`
	Xsetwacom      string   `toml:"xsetwacom"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	ProbeOutputs   bool     `toml:"probe_outputs"`
	TabletTypes    []string `toml:"tablet_types"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for tabletcycle.
//
// Configuration sections by subsystem:
//   - Marker: marker file path and startup lock timeout
//   - Coordinator: self-check interval, cycle signal, hotplug notices
//   - Tools: xrandr/xsetwacom commands and their timeouts
//   - Logging: log format, level, and optional log file
type Config struct {
	Marker      Marker      `toml:"marker"`
	Coordinator Coordinator `toml:"coordinator"`
	Tools       Tools       `toml:"tools"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error: the returned config then carries repository defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

// Sample returns the commented sample configuration shipped with the binary.
func Sample() string {
	return sampleConfig
}

// CheckInterval returns the coordinator self-check period.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.Coordinator.CheckIntervalSeconds) * time.Second
}

// LockTimeout returns how long an invocation waits for the startup lock.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Marker.LockTimeoutSeconds) * time.Second
}

// StopTimeout returns how long `stop` waits for the marker to disappear.
func (c *Config) StopTimeout() time.Duration {
	return time.Duration(c.Coordinator.StopTimeoutSeconds) * time.Second
}

// ToolTimeout returns the per-invocation timeout for external tools.
func (c *Config) ToolTimeout() time.Duration {
	return time.Duration(c.Tools.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
