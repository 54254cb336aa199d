package hotplug

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"tabletcycle/internal/logging"
)

// Kind classifies a topology change.
type Kind string

const (
	KindDisplay Kind = "display"
	KindInput   Kind = "input"
)

// Change is one relevant uevent.
type Change struct {
	Kind   Kind
	Action string
	Device string
}

// quietPeriod collapses the burst of uevents a single plug produces.
const quietPeriod = 2 * time.Second

// Monitor listens for udev netlink events and reports display or input
// topology changes.
type Monitor struct {
	logger   *slog.Logger
	onChange func(Change)
	now      func() time.Time

	mu         sync.Mutex
	conn       *netlink.UEventConn
	quit       chan struct{}
	running    bool
	lastNotice map[Kind]time.Time
}

// New creates a monitor. onChange is optional and runs on the monitor
// goroutine after the change has been logged.
func New(logger *slog.Logger, onChange func(Change)) *Monitor {
	return &Monitor{
		logger:     logging.NewComponentLogger(logger, "hotplug"),
		onChange:   onChange,
		now:        time.Now,
		lastNotice: make(map[Kind]time.Time),
	}
}

// Start begins listening. Connection failure is logged and is not an error.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; hotplug notices disabled",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"),
			logging.String(logging.FieldErrorHint, "set coordinator.hotplug_monitor = false to silence this warning"),
			logging.String(logging.FieldImpact, "monitor changes will not be reported"),
		)
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, conn, quit)

	m.logger.Debug("hotplug monitor started",
		logging.String(logging.FieldEventType, "netlink_monitor_started"),
	)
	return nil
}

// Stop shuts down the monitor. Safe on a nil or stopped monitor.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Debug("hotplug monitor stopped",
		logging.String(logging.FieldEventType, "netlink_monitor_stopped"),
	)
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Debug("netlink monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "netlink_monitor_error"),
			)
		}
	}
}

// buildMatcher accepts DRM connector changes and input device add/remove.
func buildMatcher() netlink.Matcher {
	change := "change"
	addRemove := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &change,
		Env: map[string]string{
			"SUBSYSTEM": "drm",
		},
	})
	rules.AddRule(netlink.RuleDefinition{
		Action: &addRemove,
		Env: map[string]string{
			"SUBSYSTEM": "input",
		},
	})
	return rules
}

// classify maps a matched uevent to a Change.
func classify(uevent netlink.UEvent) (Change, bool) {
	change := Change{Action: string(uevent.Action), Device: deviceName(uevent)}
	switch uevent.Env["SUBSYSTEM"] {
	case "drm":
		if uevent.Env["HOTPLUG"] == "" && uevent.Env["CONNECTOR"] == "" {
			return Change{}, false
		}
		change.Kind = KindDisplay
	case "input":
		if uevent.Env["ID_INPUT_TABLET"] == "" && !strings.Contains(strings.ToLower(uevent.Env["NAME"]), "wacom") {
			return Change{}, false
		}
		change.Kind = KindInput
	default:
		return Change{}, false
	}
	return change, true
}

func (m *Monitor) handleEvent(uevent netlink.UEvent) {
	change, ok := classify(uevent)
	if !ok {
		m.logger.Debug("ignoring uevent",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}
	if !m.shouldNotify(change.Kind) {
		return
	}

	logging.WarnWithContext(m.logger, "device topology changed; restart the coordinator to pick it up", "topology_changed",
		logging.String("kind", string(change.Kind)),
		logging.String("action", change.Action),
		logging.String("device", change.Device),
		logging.String(logging.FieldErrorHint, "run `tabletcycle stop`, then press the hotkey"),
		logging.String(logging.FieldImpact, "cycling keeps using the displays and tablets found at startup"),
	)
	if m.onChange != nil {
		m.onChange(change)
	}
}

func (m *Monitor) shouldNotify(kind Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if last, ok := m.lastNotice[kind]; ok && now.Sub(last) < quietPeriod {
		return false
	}
	m.lastNotice[kind] = now
	return true
}

func deviceName(uevent netlink.UEvent) string {
	if name := strings.Trim(uevent.Env["NAME"], `"`); name != "" {
		return name
	}
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return uevent.KObj
	}
	parts := strings.Split(devpath, "/")
	return parts[len(parts)-1]
}
