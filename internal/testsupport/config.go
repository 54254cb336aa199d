package testsupport

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tabletcycle/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose marker lives in a per-test temp directory.
// Hotplug monitoring is off and the self-check interval is one second.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Marker.Path = filepath.Join(base, "tmp_wacom_screen_switch_pid.pid")
	cfgVal.Marker.LockTimeoutSeconds = 2
	cfgVal.Coordinator.CheckIntervalSeconds = 1
	cfgVal.Coordinator.HotplugMonitor = false
	cfgVal.Coordinator.StopTimeoutSeconds = 2
	cfgVal.Tools.TimeoutSeconds = 5
	cfgVal.Logging.Level = "error"

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

// WithSignalOffset selects a distinct real-time signal so parallel test
// binaries do not observe each other's cycle events.
func WithSignalOffset(offset int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Coordinator.SignalOffset = offset
	}
}

// WithoutProbe disables output-name probing.
func WithoutProbe() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tools.ProbeOutputs = false
	}
}

// WithXrandr installs an xrandr stub that prints output and exits 0.
func WithXrandr(output string) ConfigOption {
	return func(b *configBuilder) {
		body := "cat <<'XRANDR_EOF'\n" + output + "\nXRANDR_EOF\n"
		b.cfg.Tools.Xrandr = StubScript(b.t, b.binDir(), "xrandr", body)
	}
}

// WithXsetwacom installs an xsetwacom stub. `--list devices` prints devices;
// `--set DEV MapToOutput OUT` appends "DEV|OUT" to MapLog. Outputs listed in
// reject make the stub print xsetwacom's unknown-output message and fail.
func WithXsetwacom(devices string, reject ...string) ConfigOption {
	return func(b *configBuilder) {
		logPath := MapLog(b.cfg)
		var script strings.Builder
		script.WriteString("if [ \"$1\" = \"--list\" ]; then\ncat <<'XSW_EOF'\n")
		script.WriteString(devices)
		script.WriteString("\nXSW_EOF\nexit 0\nfi\n")
		if len(reject) > 0 {
			fmt.Fprintf(&script, "case \"$4\" in\n%s)\n  echo \"Unable to find an output '$4'.\" >&2\n  exit 1\n  ;;\nesac\n", strings.Join(reject, "|"))
		}
		fmt.Fprintf(&script, "echo \"$2|$4\" >> %q\n", logPath)
		b.cfg.Tools.Xsetwacom = StubScript(b.t, b.binDir(), "xsetwacom", script.String())
	}
}

// WithStubbedBinaries writes no-op executables for the provided names and
// prepends them to PATH. If names is empty, xrandr and xsetwacom are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"xrandr", "xsetwacom"}
		}
		dir := b.binDir()
		for _, name := range names {
			StubScript(b.t, dir, name, "exit 0\n")
		}
		b.t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

func (b *configBuilder) binDir() string {
	dir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	return dir
}

// StubScript writes an executable /bin/sh script and returns its path.
func StubScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Marker.Path)
}

// MapLog returns the file the xsetwacom stub appends mappings to.
func MapLog(cfg *config.Config) string {
	return filepath.Join(BaseDir(cfg), "xsetwacom-map.log")
}

// MapCalls returns the "DEV|OUT" lines recorded by the xsetwacom stub.
func MapCalls(t testing.TB, cfg *config.Config) []string {
	t.Helper()
	f, err := os.Open(MapLog(cfg))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("open map log: %v", err)
	}
	defer f.Close()

	var calls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			calls = append(calls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("read map log: %v", err)
	}
	return calls
}
