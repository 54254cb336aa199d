// Package main hosts the tabletcycle CLI.
//
// Run without arguments (typically from a hotkey), tabletcycle either starts
// the coordinator that owns the tablet's display mapping or signals the one
// already running to move the tablet to the next display. The subcommands
// inspect and control that coordinator and the devices it works with.
package main
