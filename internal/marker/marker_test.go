package marker_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tabletcycle/internal/marker"
)

func newMarker(t *testing.T) *marker.File {
	t.Helper()
	return marker.New(filepath.Join(t.TempDir(), "tmp_wacom_screen_switch_pid.pid"))
}

func TestWriteReadRoundTrip(t *testing.T) {
	m := newMarker(t)
	for _, pid := range []int{1, 4242, os.Getpid(), 4194304} {
		if err := m.Write(pid); err != nil {
			t.Fatalf("Write(%d): %v", pid, err)
		}
		got, err := m.Read()
		if err != nil {
			t.Fatalf("Read after Write(%d): %v", pid, err)
		}
		if got != pid {
			t.Fatalf("round trip mismatch: wrote %d read %d", pid, got)
		}
	}

	content, err := os.ReadFile(m.Path())
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	if string(content) != "4194304\n" {
		t.Fatalf("unexpected marker content %q", content)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	m := newMarker(t)
	if err := m.Write(77); err != nil {
		t.Fatalf("Write: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(m.Path()))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the marker, got %v", names)
	}
}

func TestWriteRejectsInvalidPID(t *testing.T) {
	m := newMarker(t)
	if err := m.Write(0); err == nil {
		t.Fatal("expected error for pid 0")
	}
	if _, err := m.Read(); !errors.Is(err, marker.ErrNotFound) {
		t.Fatalf("expected no marker after rejected write, got %v", err)
	}
}

func TestWriteFailsForUnwritableLocation(t *testing.T) {
	m := marker.New(filepath.Join(t.TempDir(), "missing-dir", "marker.pid"))
	if err := m.Write(12); err == nil {
		t.Fatal("expected error when directory does not exist")
	}
}

func TestReadMissing(t *testing.T) {
	m := newMarker(t)
	if _, err := m.Read(); !errors.Is(err, marker.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "text", content: "not-a-pid\n"},
		{name: "negative", content: "-5\n"},
		{name: "zero", content: "0"},
		{name: "float", content: "12.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMarker(t)
			if err := os.WriteFile(m.Path(), []byte(tt.content), 0o644); err != nil {
				t.Fatalf("seed marker: %v", err)
			}
			if _, err := m.Read(); !errors.Is(err, marker.ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestReadToleratesWhitespaceAndMissingNewline(t *testing.T) {
	m := newMarker(t)
	if err := os.WriteFile(m.Path(), []byte("  913  \nextra"), 0o644); err != nil {
		t.Fatalf("seed marker: %v", err)
	}
	pid, err := m.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if pid != 913 {
		t.Fatalf("expected 913, got %d", pid)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	m := newMarker(t)
	if err := m.Write(55); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := m.Remove(); err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	if err := m.Remove(); err != nil {
		t.Fatalf("second Remove must not fail: %v", err)
	}
	if _, err := os.Stat(m.Path()); !os.IsNotExist(err) {
		t.Fatalf("marker still present: %v", err)
	}
}

func TestAcquireExcludesConcurrentHolders(t *testing.T) {
	m := newMarker(t)
	release, err := m.Acquire(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	if _, err := marker.New(m.Path()).Acquire(context.Background(), 150*time.Millisecond); !errors.Is(err, marker.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout while lock is held, got %v", err)
	}

	release()
	release()

	again, err := marker.New(m.Path()).Acquire(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	again()
}

func TestAcquireWaitsForRelease(t *testing.T) {
	m := newMarker(t)
	release, err := m.Acquire(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	time.AfterFunc(100*time.Millisecond, release)

	start := time.Now()
	second, err := marker.New(m.Path()).Acquire(context.Background(), 5*time.Second)
	if err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	defer second()
	if time.Since(start) < 50*time.Millisecond {
		t.Fatal("second Acquire returned before the first holder released")
	}
}
