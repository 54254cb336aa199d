package main

import (
	"strings"
	"testing"

	"tabletcycle/internal/coordctl"
	"tabletcycle/internal/devices"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B", "C"}, [][]string{{"1"}, {"2", "x", "y"}}, []columnAlignment{alignRight})
	if !strings.Contains(out, "A") || !strings.Contains(out, "y") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestRenderStatusLine(t *testing.T) {
	plain := renderStatusLine("cycle signal", statusOK, "SIGRTMIN+1", false)
	if !strings.Contains(plain, "Cycle Signal:") || !strings.Contains(plain, "[OK] SIGRTMIN+1") {
		t.Fatalf("unexpected status line %q", plain)
	}
	colored := renderStatusLine("state", statusError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected colored line, got %q", colored)
	}
}

func TestCoordinatorStatusLines(t *testing.T) {
	lines := coordinatorStatusLines(coordctl.Status{MarkerPath: "/tmp/m.pid", MarkerState: coordctl.MarkerPresent, PID: 12, Running: true}, false)
	if len(lines) != 2 || !strings.Contains(lines[1], "running (pid 12)") {
		t.Fatalf("unexpected lines: %v", lines)
	}
	lines = coordinatorStatusLines(coordctl.Status{MarkerPath: "/tmp/m.pid", MarkerState: coordctl.MarkerPresent, PID: 12, Detail: "stale marker: process not found"}, false)
	if !strings.Contains(lines[1], "[WARN]") || !strings.Contains(lines[1], "stale marker") {
		t.Fatalf("unexpected stale lines: %v", lines)
	}
}

func TestRenderTabletTableMarksSelection(t *testing.T) {
	out := renderTabletTable([]devices.Tablet{
		{Name: "pen", ID: "10", Type: "STYLUS"},
		{Name: "pad", ID: "12", Type: "PAD"},
	}, []string{"pen"})
	var penLine, padLine string
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, "pen"):
			penLine = line
		case strings.Contains(line, "pad"):
			padLine = line
		}
	}
	if !strings.Contains(penLine, "yes") || !strings.Contains(padLine, "no") {
		t.Fatalf("unexpected selection markers:\n%s", out)
	}
	if !strings.Contains(renderDisplayTable(nil), "no connected displays") {
		t.Fatal("expected placeholder row for empty display list")
	}
}
