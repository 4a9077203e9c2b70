// Package transport connects to receipt printers over serial lines, raw TCP
// (port 9100), USB line-printer device files and WebSocket bridges.
//
// Every transport satisfies printer.Transport:
//
//	t, err := transport.OpenSerial("/dev/ttyUSB0", transport.DefaultSerialConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p, err := printer.Connect(ctx, t)
//
// Reads happen on a background goroutine so Receive can honour its context.
package transport
