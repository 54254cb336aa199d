//go:build !linux

package procsignal

func realtimeRange() (int, int, bool) {
	return 0, 0, false
}
