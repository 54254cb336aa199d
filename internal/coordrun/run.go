package coordrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"tabletcycle/internal/config"
	"tabletcycle/internal/coordctl"
	"tabletcycle/internal/coordinator"
	"tabletcycle/internal/deps"
	"tabletcycle/internal/devices"
	"tabletcycle/internal/hotplug"
	"tabletcycle/internal/logging"
	"tabletcycle/internal/marker"
	"tabletcycle/internal/procsignal"
)

// TriggerMessage is printed when the cycle event went to a running coordinator.
const TriggerMessage = "Already started!  Switch signal sent."

// Options configures one invocation.
type Options struct {
	// Out receives user-facing messages. Defaults to stdout.
	Out io.Writer
	// Logger overrides the logger built from cfg.
	Logger *slog.Logger
}

// Run performs the liveness check and then either signals the running
// coordinator or becomes the coordinator and blocks until it terminates.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = logging.NewFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	}

	cycleSignal, err := procsignal.CycleSignal(cfg.Coordinator.SignalOffset)
	if err != nil {
		return err
	}

	m := marker.New(cfg.Marker.Path)
	resolver := &coordctl.Resolver{
		Marker:      m,
		Self:        os.Getpid(),
		Signal:      cycleSignal,
		LockTimeout: cfg.LockTimeout(),
		Logger:      logger,
	}
	resolution, err := resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	defer resolution.Release()

	if resolution.Role == coordctl.RoleTrigger {
		fmt.Fprintln(out, TriggerMessage)
		return nil
	}

	sessionID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldSessionID, sessionID))
	logger.Info("starting coordinator",
		logging.String(logging.FieldEventType, "coordinator_starting"),
		logging.String("reason", string(resolution.Reason)),
		logging.Int(logging.FieldPID, os.Getpid()),
		logging.String(logging.FieldSignal, procsignal.Name(cycleSignal)),
		logging.String("marker", m.Path()),
	)
	logDependencySnapshot(logger, cfg)

	// Handlers go in before the marker names this process, so a trigger can
	// never hit the default action of the cycle signal.
	listener := procsignal.Listen(cycleSignal)
	defer listener.Close()

	runner := devices.ExecRunner{Timeout: cfg.ToolTimeout()}
	xsetwacom := &devices.Xsetwacom{Binary: cfg.Tools.Xsetwacom, Runner: runner, Types: cfg.Tools.TabletTypes}
	displays := &devices.ProbedDisplays{
		Xrandr: &devices.Xrandr{Binary: cfg.Tools.Xrandr, Runner: runner},
		Logger: logger,
	}
	if cfg.Tools.ProbeOutputs {
		displays.Xsetwacom = xsetwacom
	}

	coord, err := coordinator.New(coordinator.Options{
		Displays:      displays,
		Tablets:       xsetwacom,
		Mapper:        xsetwacom,
		Marker:        m,
		Events:        listener,
		PID:           os.Getpid(),
		CheckInterval: cfg.CheckInterval(),
		Logger:        logger,
		Out:           out,
	})
	if err != nil {
		return err
	}
	if err := coord.Start(ctx); err != nil {
		return err
	}
	resolution.Release()

	if cfg.Coordinator.HotplugMonitor {
		monitor := hotplug.New(logger, nil)
		if err := monitor.Start(ctx); err != nil {
			logger.Warn("hotplug monitor unavailable", logging.Error(err))
		}
		defer monitor.Stop()
	}

	err = coord.Run(ctx)
	if errors.Is(err, coordinator.ErrOrphaned) {
		logger.Info("coordinator exiting without cleanup",
			logging.String(logging.FieldEventType, "coordinator_orphaned"),
		)
	}
	return err
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.Bool("probe_outputs", cfg.Tools.ProbeOutputs),
		logging.String("tablet_types", strings.Join(cfg.Tools.TabletTypes, ",")),
	}
	for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
		attrs = append(attrs,
			logging.Bool(status.Name+"_available", status.Available),
			logging.String(status.Name+"_binary", status.Command),
		)
	}
	logger.Info("dependency snapshot", logging.Args(attrs...)...)
}
