package procsignal_test

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"testing"

	"tabletcycle/internal/procsignal"
)

func TestProbeCurrentProcess(t *testing.T) {
	if err := procsignal.Probe(os.Getpid()); err != nil {
		t.Fatalf("expected own pid to be alive: %v", err)
	}
}

func TestProbeExitedProcess(t *testing.T) {
	cmd := exec.Command("true")
	if err := cmd.Run(); err != nil {
		t.Skipf("true not available: %v", err)
	}
	err := procsignal.Probe(cmd.Process.Pid)
	if !errors.Is(err, procsignal.ErrNoProcess) {
		t.Fatalf("expected ErrNoProcess for reaped child, got %v", err)
	}
}

func TestProbeRejectsProcessGroupPIDs(t *testing.T) {
	for _, pid := range []int{0, -1, -os.Getpid()} {
		if err := procsignal.Probe(pid); err == nil {
			t.Fatalf("expected error for pid %d", pid)
		}
	}
}

func TestNameForStandardSignals(t *testing.T) {
	if got := procsignal.Name(syscall.SIGTERM); got != "SIGTERM" {
		t.Fatalf("unexpected name %q", got)
	}
}
