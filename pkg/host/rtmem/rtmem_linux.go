//go:build linux

package rtmem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func lock() error {
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		return fmt.Errorf("rtmem: mlockall: %w", err)
	}
	return nil
}

func unlock() error {
	if err := unix.Munlockall(); err != nil {
		return fmt.Errorf("rtmem: munlockall: %w", err)
	}
	return nil
}
