// Package devices wraps the external X11 tools that enumerate displays and
// tablets and apply tablet-to-output mappings.
//
// xrandr lists connected outputs; xsetwacom lists tablet devices and binds a
// device to an output with MapToOutput. Parsing lives in pure functions so it
// can be tested without the tools installed.
package devices
