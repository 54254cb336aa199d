package hotplug

import (
	"context"
	"testing"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"tabletcycle/internal/logging"
)

func TestBuildMatcher(t *testing.T) {
	matcher := buildMatcher()

	tests := []struct {
		name  string
		event netlink.UEvent
		want  bool
	}{
		{
			name:  "drm change",
			event: netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{"SUBSYSTEM": "drm", "HOTPLUG": "1"}},
			want:  true,
		},
		{
			name:  "drm add ignored",
			event: netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"SUBSYSTEM": "drm"}},
			want:  false,
		},
		{
			name:  "input add",
			event: netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"SUBSYSTEM": "input"}},
			want:  true,
		},
		{
			name:  "input remove",
			event: netlink.UEvent{Action: netlink.REMOVE, Env: map[string]string{"SUBSYSTEM": "input"}},
			want:  true,
		},
		{
			name:  "input change ignored",
			event: netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{"SUBSYSTEM": "input"}},
			want:  false,
		},
		{
			name:  "block ignored",
			event: netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"SUBSYSTEM": "block"}},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matcher.Evaluate(tt.event); got != tt.want {
				t.Fatalf("Evaluate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	display, ok := classify(netlink.UEvent{
		Action: netlink.CHANGE,
		KObj:   "/devices/pci0000:00/0000:00:02.0/drm/card0",
		Env:    map[string]string{"SUBSYSTEM": "drm", "HOTPLUG": "1", "DEVNAME": "/dev/dri/card0"},
	})
	if !ok || display.Kind != KindDisplay || display.Device != "/dev/dri/card0" {
		t.Fatalf("unexpected display change: %+v ok=%v", display, ok)
	}

	tablet, ok := classify(netlink.UEvent{
		Action: netlink.ADD,
		Env:    map[string]string{"SUBSYSTEM": "input", "ID_INPUT_TABLET": "1", "NAME": `"Wacom Intuos Pro M Pen"`},
	})
	if !ok || tablet.Kind != KindInput || tablet.Device != "Wacom Intuos Pro M Pen" || tablet.Action != "add" {
		t.Fatalf("unexpected input change: %+v ok=%v", tablet, ok)
	}

	if _, ok := classify(netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"SUBSYSTEM": "input", "NAME": `"USB Keyboard"`}}); ok {
		t.Fatal("keyboards must not be reported")
	}
	if _, ok := classify(netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{"SUBSYSTEM": "drm"}}); ok {
		t.Fatal("drm change without hotplug flag must not be reported")
	}
}

func TestHandleEventDebouncesBursts(t *testing.T) {
	var changes []Change
	m := New(logging.NewNop(), func(c Change) { changes = append(changes, c) })
	now := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return now }

	event := netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{"SUBSYSTEM": "drm", "HOTPLUG": "1"}}
	m.handleEvent(event)
	m.handleEvent(event)
	m.handleEvent(netlink.UEvent{Action: netlink.REMOVE, Env: map[string]string{"SUBSYSTEM": "input", "ID_INPUT_TABLET": "1"}})
	if len(changes) != 2 {
		t.Fatalf("expected burst to collapse into one display notice plus one input notice, got %+v", changes)
	}

	now = now.Add(quietPeriod)
	m.handleEvent(event)
	if len(changes) != 3 {
		t.Fatalf("expected a new notice after the quiet period, got %d", len(changes))
	}
}

func TestMonitorNilAndStopSafety(t *testing.T) {
	var nilMonitor *Monitor
	nilMonitor.Stop()
	if nilMonitor.Running() {
		t.Fatal("nil monitor must not report running")
	}
	if err := nilMonitor.Start(context.Background()); err != nil {
		t.Fatalf("Start on nil monitor: %v", err)
	}

	m := New(nil, nil)
	m.Stop()
	m.Stop()
	if m.Running() {
		t.Fatal("unstarted monitor must not report running")
	}

	// Netlink may be unavailable in sandboxes; Start must not fail either way.
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m.Stop()
	if m.Running() {
		t.Fatal("monitor still running after Stop")
	}
}
