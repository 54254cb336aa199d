package deps

import (
	"os"
	"path/filepath"
	"testing"

	"tabletcycle/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for blank command: %#v", results[2])
	}

	if missing := Missing(results); len(missing) != 2 {
		t.Fatalf("expected two missing requirements, got %#v", missing)
	}
}

func TestRequirementsFollowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.Xsetwacom = "/opt/wacom/bin/xsetwacom"

	reqs := Requirements(&cfg)
	if len(reqs) != 2 {
		t.Fatalf("expected two requirements, got %d", len(reqs))
	}
	if reqs[0].Command != "xrandr" || reqs[1].Command != "/opt/wacom/bin/xsetwacom" {
		t.Fatalf("unexpected commands: %#v", reqs)
	}
}

func TestMissingSkipsOptional(t *testing.T) {
	statuses := []Status{
		{Name: "a", Available: false, Optional: true},
		{Name: "b", Available: true},
	}
	if missing := Missing(statuses); len(missing) != 0 {
		t.Fatalf("expected no required misses, got %#v", missing)
	}
}
