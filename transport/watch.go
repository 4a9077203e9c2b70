package transport

import "errors"

// ErrWatchUnsupported is returned by WatchUSBPrinters on platforms without udev.
var ErrWatchUnsupported = errors.New("USB printer hotplug watching is only supported on linux")

// USBEvent reports a USB printer being attached or removed.
type USBEvent struct {
	// Action is "add" or "remove".
	Action string

	// Device is the device file, e.g. /dev/usb/lp0.
	Device string

	Vendor string
	Model  string
	Serial string
}
