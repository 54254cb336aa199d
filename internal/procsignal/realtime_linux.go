package procsignal

// glibc reserves kernel signals 32 and 33 for its threading implementation,
// so user-visible SIGRTMIN is 34. Matching glibc keeps the signal number
// compatible with C and Python tools that send SIGRTMIN+n.
const (
	linuxRTMin = 34
	linuxRTMax = 64
)

func realtimeRange() (int, int, bool) {
	return linuxRTMin, linuxRTMax, true
}
