//go:build !linux

package transport

import "context"

// WatchUSBPrinters is not available on this platform.
func WatchUSBPrinters(ctx context.Context) (<-chan USBEvent, <-chan error, error) {
	return nil, nil, ErrWatchUnsupported
}
