package transport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/moffa90/go-escpos/document"
)

// DefaultDevicePath is the first USB printer class device on Linux.
const DefaultDevicePath = "/dev/usb/lp0"

// OpenDevice opens a printer device file such as /dev/usb/lp0.
func OpenDevice(path string) (*Stream, error) {
	if path == "" {
		path = DefaultDevicePath
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open printer device: %w", err)
	}

	info := document.DeviceInfo{SerialNumber: filepath.Base(path)}
	// Character devices are usually not pollable; the deadline is best effort.
	return newStream(f, info, f.SetWriteDeadline), nil
}
