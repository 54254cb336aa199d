package coordinator

import (
	"errors"
	"fmt"
)

var (
	// ErrEnumeration reports that displays or tablets could not be listed.
	ErrEnumeration = errors.New("device enumeration failed")
	// ErrNoDisplays reports an empty display list. It wraps ErrEnumeration.
	ErrNoDisplays = fmt.Errorf("%w: no connected displays", ErrEnumeration)
	// ErrMarkerWrite reports that the process marker could not be registered.
	ErrMarkerWrite = errors.New("process marker write failed")
	// ErrOrphaned reports that the marker no longer names this process.
	ErrOrphaned = errors.New("process marker no longer names this coordinator")
)
