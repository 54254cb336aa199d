// Package coordinator owns the long-lived cycling loop.
//
// A Coordinator enumerates displays and tablets once, maps every tablet to
// the first display, registers itself in the process marker, and then waits
// for cycle events, termination events, and the periodic self-check. All of
// its state is owned by the goroutine that calls Run.
package coordinator
