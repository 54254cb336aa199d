package coordctl

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"tabletcycle/internal/marker"
	"tabletcycle/internal/procsignal"
)

// ErrNotRunning indicates that no live coordinator owns the marker.
var ErrNotRunning = errors.New("coordinator not running")

// MarkerState summarizes what the marker file holds.
type MarkerState string

const (
	MarkerAbsent  MarkerState = "absent"
	MarkerCorrupt MarkerState = "corrupt"
	MarkerPresent MarkerState = "present"
)

// Status is a point-in-time view of the coordinator as seen from outside.
type Status struct {
	MarkerPath  string
	MarkerState MarkerState
	PID         int
	Running     bool
	Detail      string
}

// Inspect reads the marker and probes the recorded PID.
func Inspect(m *marker.File, probe func(pid int) error) Status {
	if probe == nil {
		probe = procsignal.Probe
	}
	status := Status{MarkerPath: m.Path()}
	pid, err := m.Read()
	switch {
	case errors.Is(err, marker.ErrNotFound):
		status.MarkerState = MarkerAbsent
		return status
	case err != nil:
		status.MarkerState = MarkerCorrupt
		status.Detail = err.Error()
		return status
	}
	status.MarkerState = MarkerPresent
	status.PID = pid

	switch err := probe(pid); {
	case err == nil:
		status.Running = true
	case errors.Is(err, procsignal.ErrNoProcess):
		status.Detail = "stale marker: process not found"
	case errors.Is(err, procsignal.ErrNotPermitted):
		status.Detail = "marker names a process owned by another user"
	default:
		status.Detail = err.Error()
	}
	return status
}

// StopOptions controls Stop.
type StopOptions struct {
	Timeout time.Duration
	// Force sends SIGKILL and removes the marker when the coordinator does not
	// exit within Timeout.
	Force bool

	Probe   func(pid int) error
	Deliver func(pid int, sig syscall.Signal) error
}

// StopResult captures the stop outcome.
type StopResult struct {
	PID        int
	ForcedKill bool
}

// Stop sends SIGTERM to the live coordinator and waits for it to remove its
// marker or exit.
func Stop(ctx context.Context, m *marker.File, opts StopOptions) (StopResult, error) {
	probe := opts.Probe
	if probe == nil {
		probe = procsignal.Probe
	}
	deliver := opts.Deliver
	if deliver == nil {
		deliver = procsignal.Deliver
	}

	status := Inspect(m, probe)
	if !status.Running {
		if status.Detail != "" {
			return StopResult{PID: status.PID}, fmt.Errorf("%w: %s", ErrNotRunning, status.Detail)
		}
		return StopResult{}, ErrNotRunning
	}
	result := StopResult{PID: status.PID}

	if err := deliver(status.PID, syscall.SIGTERM); err != nil {
		if errors.Is(err, procsignal.ErrNoProcess) {
			return result, ErrNotRunning
		}
		return result, fmt.Errorf("signal coordinator %d: %w", status.PID, err)
	}

	waitErr := WaitForShutdown(ctx, m, status.PID, opts.Timeout, probe)
	if waitErr == nil || !opts.Force {
		return result, waitErr
	}

	if err := deliver(status.PID, syscall.SIGKILL); err != nil && !errors.Is(err, procsignal.ErrNoProcess) {
		return result, fmt.Errorf("kill coordinator %d: %w", status.PID, err)
	}
	if pid, err := m.Read(); err == nil && pid == status.PID {
		if err := m.Remove(); err != nil {
			return result, err
		}
	}
	result.ForcedKill = true
	return result, nil
}

// WaitForShutdown polls until the marker no longer names pid or pid is gone.
func WaitForShutdown(ctx context.Context, m *marker.File, pid int, timeout time.Duration, probe func(pid int) error) error {
	if probe == nil {
		probe = procsignal.Probe
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		current, err := m.Read()
		if err != nil || current != pid {
			return nil
		}
		if errors.Is(probe(pid), procsignal.ErrNoProcess) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("coordinator %d did not stop: %w", pid, ctx.Err())
		case <-ticker.C:
		}
	}
}
