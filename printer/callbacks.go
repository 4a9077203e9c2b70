package printer

import (
	"context"

	"github.com/moffa90/go-escpos/document"
)

// Transport moves bytes to and from a printer.
//
// Receive blocks until data arrives, ctx is cancelled or the transport is
// closed. It must return an error once Close has been called.
type Transport interface {
	Send(ctx context.Context, data []byte) error
	Receive(ctx context.Context) ([]byte, error)
	DeviceInfo() document.DeviceInfo
	Close() error
}

// StatusCallback is called for every status message the printer sends.
// Callbacks run on the receive goroutine and should return quickly.
type StatusCallback func(document.StatusMessage)

// ErrorCallback is called for printer errors and for input that could not be decoded.
type ErrorCallback func(document.ErrorMessage)

// SettingsCallback is called with a copy of the configuration after it changes.
//
// Example:
//
//	p := printer.New(t,
//	    printer.WithSettingsCallback(func(cfg document.PrinterConfig) {
//	        fmt.Printf("%s %s (%s)\n", cfg.Manufacturer, cfg.Model, cfg.Firmware)
//	    }),
//	)
type SettingsCallback func(document.PrinterConfig)

// Logger is an optional logging interface that can be provided to the printer.
// *slog.Logger satisfies it.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	p := printer.New(t, printer.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
