package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"tabletcycle/internal/logging"
)

// DisplayEnumerator lists display outputs in cycling order.
type DisplayEnumerator interface {
	Displays(ctx context.Context) ([]string, error)
}

// TabletEnumerator lists the tablet devices to map.
type TabletEnumerator interface {
	Tablets(ctx context.Context) ([]string, error)
}

// Mapper binds one tablet to one display.
type Mapper interface {
	Map(ctx context.Context, tablet, display string) error
}

// MarkerStore is the process marker as seen by the coordinator.
type MarkerStore interface {
	Read() (int, error)
	Write(pid int) error
	Remove() error
}

// EventSource delivers cycle and termination events. Suspend drops cycle
// events until Resume is called.
type EventSource interface {
	Cycles() <-chan os.Signal
	Terminations() <-chan os.Signal
	Suspend()
	Resume()
}

// Options wires a Coordinator to its collaborators.
type Options struct {
	Displays      DisplayEnumerator
	Tablets       TabletEnumerator
	Mapper        Mapper
	Marker        MarkerStore
	Events        EventSource
	PID           int
	CheckInterval time.Duration
	Logger        *slog.Logger
	// Out receives the user-facing termination notice. Defaults to stdout.
	Out io.Writer
}

// Coordinator is the single long-lived process that owns the cycle index.
type Coordinator struct {
	displays      DisplayEnumerator
	tablets       TabletEnumerator
	mapper        Mapper
	marker        MarkerStore
	events        EventSource
	pid           int
	checkInterval time.Duration
	logger        *slog.Logger
	out           io.Writer

	mu           sync.Mutex
	state        State
	index        int
	displayNames []string
	tabletNames  []string
	started      bool
}

// New validates opts and returns an unstarted Coordinator.
func New(opts Options) (*Coordinator, error) {
	switch {
	case opts.Displays == nil:
		return nil, errors.New("coordinator: display enumerator is required")
	case opts.Tablets == nil:
		return nil, errors.New("coordinator: tablet enumerator is required")
	case opts.Mapper == nil:
		return nil, errors.New("coordinator: mapper is required")
	case opts.Marker == nil:
		return nil, errors.New("coordinator: marker store is required")
	case opts.Events == nil:
		return nil, errors.New("coordinator: event source is required")
	case opts.PID <= 0:
		return nil, fmt.Errorf("coordinator: invalid pid %d", opts.PID)
	case opts.CheckInterval <= 0:
		return nil, fmt.Errorf("coordinator: check interval must be positive, got %s", opts.CheckInterval)
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Coordinator{
		displays:      opts.Displays,
		tablets:       opts.Tablets,
		mapper:        opts.Mapper,
		marker:        opts.Marker,
		events:        opts.Events,
		pid:           opts.PID,
		checkInterval: opts.CheckInterval,
		logger:        logging.NewComponentLogger(opts.Logger, "coordinator"),
		out:           out,
		index:         -1,
	}, nil
}

// Start enumerates devices, maps every tablet to the first display, and
// registers this process in the marker. Nothing is written on failure.
func (c *Coordinator) Start(ctx context.Context) error {
	displays, err := c.displays.Displays(ctx)
	if err != nil {
		return fmt.Errorf("%w: list displays: %w", ErrEnumeration, err)
	}
	if len(displays) == 0 {
		return ErrNoDisplays
	}
	tablets, err := c.tablets.Tablets(ctx)
	if err != nil {
		return fmt.Errorf("%w: list tablets: %w", ErrEnumeration, err)
	}
	if len(tablets) == 0 {
		logging.WarnWithContext(c.logger, "no tablets found", "no_tablets",
			logging.String(logging.FieldErrorHint, "check `xsetwacom --list devices` and tools.tablet_types"),
			logging.String(logging.FieldImpact, "cycle events will not move any device"),
		)
	}

	c.mu.Lock()
	c.displayNames = append([]string(nil), displays...)
	c.tabletNames = append([]string(nil), tablets...)
	c.index = -1
	c.mu.Unlock()

	c.logger.Info("devices enumerated",
		logging.String(logging.FieldEventType, "devices_enumerated"),
		logging.Strings("displays", displays),
		logging.Strings("tablets", tablets),
	)

	c.advance(context.WithoutCancel(ctx))

	if err := c.marker.Write(c.pid); err != nil {
		return fmt.Errorf("%w: %w", ErrMarkerWrite, err)
	}
	c.mu.Lock()
	c.started = true
	c.mu.Unlock()
	c.logger.Info("coordinator registered",
		logging.String(logging.FieldEventType, "marker_written"),
		logging.Int(logging.FieldPID, c.pid),
	)
	return nil
}

// Index returns the current cycle index, or -1 before Start.
func (c *Coordinator) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// State returns the current event-handling state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Displays returns the display list captured by Start.
func (c *Coordinator) Displays() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.displayNames...)
}

// Tablets returns the tablet set captured by Start.
func (c *Coordinator) Tablets() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.tabletNames...)
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// advance moves to the next display and maps every tablet to it. Mapping
// failures are logged and skipped.
func (c *Coordinator) advance(ctx context.Context) {
	c.mu.Lock()
	c.index = (c.index + 1) % len(c.displayNames)
	index := c.index
	display := c.displayNames[index]
	tablets := c.tabletNames
	c.mu.Unlock()

	mapped := 0
	for _, tablet := range tablets {
		if err := c.mapper.Map(ctx, tablet, display); err != nil {
			logging.WarnWithContext(c.logger, "tablet mapping failed", "mapping_failed",
				logging.String(logging.FieldTablet, tablet),
				logging.String(logging.FieldDisplay, display),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "verify the output name with `tabletcycle devices`"),
				logging.String(logging.FieldImpact, "tablet stays on its previous display"),
			)
			continue
		}
		mapped++
	}
	c.logger.Info("tablets mapped",
		logging.String(logging.FieldEventType, "display_selected"),
		logging.Int(logging.FieldCycleIndex, index),
		logging.String(logging.FieldDisplay, display),
		logging.Int("mapped", mapped),
		logging.Int("tablet_count", len(tablets)),
	)
}
