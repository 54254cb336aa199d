// Package hotplug watches udev netlink events for display and input device
// changes. The coordinator captures its device lists once at startup, so the
// monitor only reports that a restart is needed to pick up the new topology.
package hotplug
