// Package procsignal carries the inter-process half of the coordination
// protocol: resolving the real-time cycle signal, probing whether a PID is
// alive, delivering a payload-less cycle event, and exposing received
// signals to the coordinator as channels.
package procsignal
