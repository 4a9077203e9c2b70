//go:build linux

package transport

import (
	"context"
	"fmt"
	"strings"

	"github.com/pilebones/go-udev/netlink"
)

// WatchUSBPrinters reports USB printer class devices as they come and go.
// Both channels are closed when ctx is done.
func WatchUSBPrinters(ctx context.Context) (<-chan USBEvent, <-chan error, error) {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return nil, nil, fmt.Errorf("connect netlink socket: %w", err)
	}

	queue := make(chan netlink.UEvent)
	monitorErrs := make(chan error)
	quit := conn.Monitor(queue, monitorErrs, printerMatcher())

	events := make(chan USBEvent)
	errs := make(chan error)

	go func() {
		defer close(events)
		defer close(errs)
		defer conn.Close()

		for {
			select {
			case <-ctx.Done():
				close(quit)
				return
			case uevent := <-queue:
				ev, ok := usbEventFrom(uevent)
				if !ok {
					continue
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					close(quit)
					return
				}
			case err := <-monitorErrs:
				select {
				case errs <- err:
				case <-ctx.Done():
					close(quit)
					return
				}
			}
		}
	}()

	return events, errs, nil
}

// printerMatcher matches add and remove events of the usbmisc subsystem,
// where the kernel registers USB printer class devices.
func printerMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "usbmisc",
		},
	})
	return rules
}

func usbEventFrom(uevent netlink.UEvent) (USBEvent, bool) {
	devname := uevent.Env["DEVNAME"]
	if devname == "" {
		parts := strings.Split(uevent.KObj, "/")
		devname = "usb/" + parts[len(parts)-1]
	}
	base := devname[strings.LastIndex(devname, "/")+1:]
	if !strings.HasPrefix(base, "lp") {
		return USBEvent{}, false
	}
	if !strings.HasPrefix(devname, "/dev/") {
		devname = "/dev/" + devname
	}

	return USBEvent{
		Action: string(uevent.Action),
		Device: devname,
		Vendor: firstNonEmpty(uevent.Env["ID_VENDOR_FROM_DATABASE"], uevent.Env["ID_VENDOR"]),
		Model:  firstNonEmpty(uevent.Env["ID_MODEL_FROM_DATABASE"], uevent.Env["ID_MODEL"]),
		Serial: uevent.Env["ID_SERIAL_SHORT"],
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
