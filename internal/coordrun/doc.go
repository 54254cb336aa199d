// Package coordrun wires configuration, role resolution, device glue, and
// the coordinator loop into the single entry point behind the CLI.
package coordrun
