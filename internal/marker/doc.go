// Package marker owns the ProcessMarker: the single well-known file that
// records which process is the running coordinator.
//
// Content is the coordinator's PID in decimal, one line. Writes are atomic
// (temp file plus rename) so concurrent readers either see the previous
// marker, no marker, or the complete new PID, never a torn value. A sibling
// lock file, held with flock, serializes the check-then-act sequence of
// racing invocations.
package marker
