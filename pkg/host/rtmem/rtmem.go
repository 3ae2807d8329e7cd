// Package rtmem keeps a realtime process's memory resident so the
// processing thread never stalls on a page fault.
package rtmem

import "errors"

// ErrUnsupported is returned on platforms without memory locking.
var ErrUnsupported = errors.New("rtmem: memory locking not supported on this platform")

// Lock pins current and future pages. Release undoes it.
func Lock() error {
	return lock()
}

// Release unpins every page.
func Release() error {
	return unlock()
}
