// Package coordctl decides whether an invocation becomes the coordinator or
// a trigger, and implements the out-of-band controls (status, stop) that act
// on a running coordinator through its process marker.
package coordctl
