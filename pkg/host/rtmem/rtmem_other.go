//go:build !linux

package rtmem

func lock() error {
	return ErrUnsupported
}

func unlock() error {
	return nil
}
