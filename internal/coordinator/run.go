package coordinator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"tabletcycle/internal/logging"
	"tabletcycle/internal/procsignal"
)

// Run waits for events until termination. It returns nil after a clean
// termination and ErrOrphaned when the self-check finds the marker missing,
// corrupt, or owned by another process. An orphaned coordinator leaves the
// marker untouched.
func (c *Coordinator) Run(ctx context.Context) error {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()
	if !started {
		return errors.New("coordinator: Run called before Start")
	}

	ticker := time.NewTicker(c.checkInterval)
	defer ticker.Stop()

	cycles := c.events.Cycles()
	terms := c.events.Terminations()
	checkNow := false
	for {
		// A termination that arrived during the last cycle wins over any
		// pending cycle or check.
		select {
		case sig := <-terms:
			return c.terminate(signalName(sig))
		case <-ctx.Done():
			return c.terminate("context canceled")
		default:
		}

		if checkNow {
			checkNow = false
			if err := c.selfCheck(); err != nil {
				return err
			}
		}

		select {
		case sig := <-terms:
			return c.terminate(signalName(sig))
		case <-ctx.Done():
			return c.terminate("context canceled")
		case sig := <-cycles:
			c.handleCycle(ctx, sig)
			checkNow = true
		case <-ticker.C:
			checkNow = true
		}
	}
}

func (c *Coordinator) handleCycle(ctx context.Context, sig os.Signal) {
	c.setState(StateHandling)
	c.events.Suspend()
	defer func() {
		c.events.Resume()
		c.setState(StateIdle)
	}()

	c.logger.Debug("cycle event received",
		logging.String(logging.FieldEventType, "cycle_received"),
		logging.String(logging.FieldSignal, signalName(sig)),
	)
	c.advance(context.WithoutCancel(ctx))
}

func (c *Coordinator) selfCheck() error {
	pid, err := c.marker.Read()
	if err != nil {
		logging.ErrorWithContext(c.logger, "process marker unreadable, exiting", "orphaned",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "press the hotkey again to start a new coordinator"),
		)
		return fmt.Errorf("%w: %w", ErrOrphaned, err)
	}
	if pid != c.pid {
		logging.ErrorWithContext(c.logger, "process marker names another process, exiting", "orphaned",
			logging.Int("marker_pid", pid),
			logging.Int(logging.FieldPID, c.pid),
		)
		return fmt.Errorf("%w: marker names pid %d", ErrOrphaned, pid)
	}
	c.logger.Debug("self-check passed", logging.String(logging.FieldEventType, "self_check_ok"))
	return nil
}

func (c *Coordinator) terminate(reason string) error {
	c.setState(StateTerminating)
	fmt.Fprintln(c.out, "Cleaning up and exiting.")
	c.logger.Info("coordinator terminating",
		logging.String(logging.FieldEventType, "terminating"),
		logging.String("reason", reason),
	)
	if err := c.marker.Remove(); err != nil {
		return fmt.Errorf("remove process marker: %w", err)
	}
	return nil
}

func signalName(sig os.Signal) string {
	if sig == nil {
		return "unknown"
	}
	return procsignal.Name(sig)
}
