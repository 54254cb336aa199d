package procsignal

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

var (
	// ErrSignalUnavailable reports that no real-time signal is usable for cycle events.
	ErrSignalUnavailable = errors.New("cycle signal unavailable")
	// ErrNoProcess reports that the target PID does not exist.
	ErrNoProcess = errors.New("process does not exist")
	// ErrNotPermitted reports that the target exists but cannot be signalled.
	ErrNotPermitted = errors.New("not permitted to signal process")
)

// TerminationSignals are the signals that make a coordinator clean up and exit.
var TerminationSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGHUP,
	syscall.SIGQUIT,
	syscall.SIGABRT,
	syscall.SIGTERM,
}

// CycleSignal returns SIGRTMIN+offset, or ErrSignalUnavailable when the
// platform has no real-time signals or the offset runs past SIGRTMAX.
func CycleSignal(offset int) (syscall.Signal, error) {
	lo, hi, ok := realtimeRange()
	if !ok {
		return 0, fmt.Errorf("%w: platform has no real-time signals", ErrSignalUnavailable)
	}
	if offset < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrSignalUnavailable, offset)
	}
	sig := lo + offset
	if sig > hi {
		return 0, fmt.Errorf("%w: SIGRTMIN+%d exceeds SIGRTMAX (%d)", ErrSignalUnavailable, offset, hi)
	}
	return syscall.Signal(sig), nil
}

// Name renders a signal for logs; real-time signals have no name of their own.
func Name(sig os.Signal) string {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return sig.String()
	}
	if lo, hi, ok := realtimeRange(); ok && int(s) >= lo && int(s) <= hi {
		if int(s) == lo {
			return "SIGRTMIN"
		}
		return fmt.Sprintf("SIGRTMIN+%d", int(s)-lo)
	}
	return unix.SignalName(s)
}

// Probe reports whether pid exists by sending it the null signal.
func Probe(pid int) error {
	return kill(pid, 0)
}

// Deliver sends sig to pid. It does not wait for any acknowledgement.
func Deliver(pid int, sig syscall.Signal) error {
	return kill(pid, sig)
}

func kill(pid int, sig syscall.Signal) error {
	// 0 and negative PIDs address process groups.
	if pid <= 0 {
		return fmt.Errorf("signal pid %d: invalid pid", pid)
	}
	err := unix.Kill(pid, sig)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.ESRCH):
		return fmt.Errorf("%w: pid %d", ErrNoProcess, pid)
	case errors.Is(err, unix.EPERM):
		return fmt.Errorf("%w: pid %d", ErrNotPermitted, pid)
	default:
		return fmt.Errorf("signal pid %d: %w", pid, err)
	}
}

// Listener routes the cycle signal and the termination signals of the
// current process into buffered channels of capacity one, so repeated
// signals coalesce while the consumer is busy.
type Listener struct {
	cycleSignal os.Signal
	cycles      chan os.Signal
	terminate   chan os.Signal
}

// Listen installs handlers for cycle and for TerminationSignals.
func Listen(cycle syscall.Signal) *Listener {
	l := &Listener{
		cycleSignal: cycle,
		cycles:      make(chan os.Signal, 1),
		terminate:   make(chan os.Signal, 1),
	}
	signal.Notify(l.cycles, l.cycleSignal)
	signal.Notify(l.terminate, TerminationSignals...)
	return l
}

// Cycles delivers cycle events.
func (l *Listener) Cycles() <-chan os.Signal {
	return l.cycles
}

// Terminations delivers termination signals.
func (l *Listener) Terminations() <-chan os.Signal {
	return l.terminate
}

// Suspend ignores the cycle signal; events arriving while suspended are dropped.
func (l *Listener) Suspend() {
	signal.Ignore(l.cycleSignal)
}

// Resume re-installs the cycle handler after Suspend.
func (l *Listener) Resume() {
	signal.Notify(l.cycles, l.cycleSignal)
}

// Close stops delivery. The cycle signal stays ignored so that a late
// trigger cannot kill the exiting process through the default action.
func (l *Listener) Close() {
	signal.Stop(l.cycles)
	signal.Stop(l.terminate)
	signal.Ignore(l.cycleSignal)
}
