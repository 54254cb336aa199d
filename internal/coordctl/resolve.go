package coordctl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"syscall"
	"time"

	"tabletcycle/internal/logging"
	"tabletcycle/internal/marker"
	"tabletcycle/internal/procsignal"
)

// Role is the part an invocation plays.
type Role int

const (
	RoleCoordinator Role = iota
	RoleTrigger
)

func (r Role) String() string {
	if r == RoleTrigger {
		return "trigger"
	}
	return "coordinator"
}

// Reason explains how a role was chosen.
type Reason string

const (
	ReasonAbsent         Reason = "marker_absent"
	ReasonCorrupt        Reason = "marker_corrupt"
	ReasonSelf           Reason = "marker_self"
	ReasonStale          Reason = "marker_stale"
	ReasonNotPermitted   Reason = "not_permitted"
	ReasonDeliveryFailed Reason = "delivery_failed"
	ReasonDelivered      Reason = "delivered"
)

// Resolution is the outcome of Resolve. A coordinator resolution still holds
// the startup lock; call Release once the marker has been written.
type Resolution struct {
	Role   Role
	Reason Reason
	// PID is the live coordinator that received the cycle event, or the
	// stale PID that was found in the marker.
	PID int

	once    sync.Once
	release func()
}

// Release drops the startup lock. Safe to call more than once.
func (r *Resolution) Release() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		if r.release != nil {
			r.release()
		}
	})
}

// Resolver performs the liveness check against the process marker.
type Resolver struct {
	Marker      *marker.File
	Self        int
	Signal      syscall.Signal
	LockTimeout time.Duration
	Logger      *slog.Logger

	// Probe and Deliver default to procsignal.Probe and procsignal.Deliver.
	Probe   func(pid int) error
	Deliver func(pid int, sig syscall.Signal) error
}

// Resolve acquires the startup lock, reads the marker, and either delivers a
// cycle event to a live coordinator (RoleTrigger, lock released) or selects
// this invocation as coordinator (RoleCoordinator, lock still held).
func (r *Resolver) Resolve(ctx context.Context) (*Resolution, error) {
	if r.Marker == nil {
		return nil, errors.New("resolve role: marker is required")
	}
	probe := r.Probe
	if probe == nil {
		probe = procsignal.Probe
	}
	deliver := r.Deliver
	if deliver == nil {
		deliver = procsignal.Deliver
	}
	logger := logging.NewComponentLogger(r.Logger, "coordctl")

	release, err := r.Marker.Acquire(ctx, r.LockTimeout)
	if err != nil {
		return nil, fmt.Errorf("resolve role: %w", err)
	}
	coordinator := func(reason Reason, pid int) *Resolution {
		return &Resolution{Role: RoleCoordinator, Reason: reason, PID: pid, release: release}
	}

	pid, err := r.Marker.Read()
	switch {
	case errors.Is(err, marker.ErrNotFound):
		logger.Debug("no process marker, starting coordinator",
			logging.String(logging.FieldEventType, string(ReasonAbsent)),
		)
		return coordinator(ReasonAbsent, 0), nil
	case err != nil:
		logging.WarnWithContext(logger, "process marker unreadable, taking over", string(ReasonCorrupt),
			logging.String("marker", r.Marker.Path()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "marker will be overwritten by this process"),
		)
		return coordinator(ReasonCorrupt, 0), nil
	case pid == r.Self:
		return coordinator(ReasonSelf, pid), nil
	}

	switch err := probe(pid); {
	case err == nil:
	case errors.Is(err, procsignal.ErrNoProcess):
		logger.Info("stale process marker, taking over",
			logging.String(logging.FieldEventType, string(ReasonStale)),
			logging.Int(logging.FieldPID, pid),
		)
		return coordinator(ReasonStale, pid), nil
	case errors.Is(err, procsignal.ErrNotPermitted):
		logging.WarnWithContext(logger, "process marker names a process we cannot signal, taking over", string(ReasonNotPermitted),
			logging.Int(logging.FieldPID, pid),
			logging.String(logging.FieldErrorHint, "the PID was likely reused by another user's process"),
			logging.String(logging.FieldImpact, "marker will be overwritten by this process"),
		)
		return coordinator(ReasonNotPermitted, pid), nil
	default:
		logging.WarnWithContext(logger, "liveness probe failed, taking over", string(ReasonStale),
			logging.Int(logging.FieldPID, pid),
			logging.Error(err),
		)
		return coordinator(ReasonStale, pid), nil
	}

	if err := deliver(pid, r.Signal); err != nil {
		logging.WarnWithContext(logger, "cycle event delivery failed, taking over", string(ReasonDeliveryFailed),
			logging.Int(logging.FieldPID, pid),
			logging.String(logging.FieldSignal, procsignal.Name(r.Signal)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "marker will be overwritten by this process"),
		)
		return coordinator(ReasonDeliveryFailed, pid), nil
	}

	release()
	logger.Debug("cycle event delivered",
		logging.String(logging.FieldEventType, string(ReasonDelivered)),
		logging.Int(logging.FieldPID, pid),
		logging.String(logging.FieldSignal, procsignal.Name(r.Signal)),
	)
	return &Resolution{Role: RoleTrigger, Reason: ReasonDelivered, PID: pid}, nil
}
