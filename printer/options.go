package printer

import (
	"time"

	"github.com/moffa90/go-escpos/document"
	"github.com/moffa90/go-escpos/escpos"
)

// Config holds the session configuration.
type Config struct {
	// Logger is used for logging operations (optional)
	Logger Logger

	// CommandSet encodes documents and parses printer output.
	// Default is escpos.New().
	CommandSet document.CommandSet

	// SendTimeout bounds a single transport write
	SendTimeout time.Duration

	// ResponseTimeout bounds the wait for the replies of one transaction
	ResponseTimeout time.Duration

	// Retries is the number of configuration refresh attempts made by Connect
	Retries int

	// StatusCallback receives status messages (optional)
	StatusCallback StatusCallback

	// ErrorCallback receives printer errors and undecodable input (optional)
	ErrorCallback ErrorCallback

	// SettingsCallback receives the configuration after each update (optional)
	SettingsCallback SettingsCallback

	// PrinterConfig is the configuration assumed before the printer answers.
	PrinterConfig document.PrinterConfig
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		CommandSet:      escpos.New(),
		SendTimeout:     5 * time.Second,
		ResponseTimeout: 5 * time.Second,
		Retries:         3,
		PrinterConfig:   document.DefaultPrinterConfig(),
	}
}

// Option is a functional option for configuring the Printer.
type Option func(*Config)

// WithLogger sets a logger for session operations. A *slog.Logger can be
// passed directly.
//
// Example:
//
//	p := printer.New(t, printer.WithLogger(slog.Default()))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithCommandSet sets the printer language.
//
// Example:
//
//	p := printer.New(t, printer.WithCommandSet(escpos.New(escpos.WithStatusProbeAtEnd(true))))
func WithCommandSet(cs document.CommandSet) Option {
	return func(c *Config) {
		if cs != nil {
			c.CommandSet = cs
		}
	}
}

// WithTimeout sets both send and response timeouts.
//
// Example:
//
//	p := printer.New(t, printer.WithTimeout(10*time.Second))
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.SendTimeout = timeout
			c.ResponseTimeout = timeout
		}
	}
}

// WithSendTimeout sets the write timeout.
func WithSendTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.SendTimeout = timeout
		}
	}
}

// WithResponseTimeout sets how long a transaction waits for its replies.
//
// Example:
//
//	p := printer.New(t, printer.WithResponseTimeout(2*time.Second))
func WithResponseTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ResponseTimeout = timeout
		}
	}
}

// WithRetries sets the number of configuration refresh attempts made by Connect.
//
// Example:
//
//	p, err := printer.Connect(ctx, t, printer.WithRetries(5))
func WithRetries(retries int) Option {
	return func(c *Config) {
		if retries >= 0 {
			c.Retries = retries
		}
	}
}

// WithStatusCallback sets a callback for status messages.
//
// Example:
//
//	p := printer.New(t,
//	    printer.WithStatusCallback(func(m document.StatusMessage) {
//	        fmt.Println("status:", m.Statuses)
//	    }),
//	)
func WithStatusCallback(callback StatusCallback) Option {
	return func(c *Config) {
		c.StatusCallback = callback
	}
}

// WithErrorCallback sets a callback for error messages.
func WithErrorCallback(callback ErrorCallback) Option {
	return func(c *Config) {
		c.ErrorCallback = callback
	}
}

// WithSettingsCallback sets a callback invoked after the printer
// configuration changes.
func WithSettingsCallback(callback SettingsCallback) Option {
	return func(c *Config) {
		c.SettingsCallback = callback
	}
}

// WithPrinterConfig sets the configuration assumed until the printer reports its own.
//
// Example:
//
//	cfg := document.DefaultPrinterConfig()
//	cfg.CharactersPerLine = 48
//	p := printer.New(t, printer.WithPrinterConfig(cfg))
func WithPrinterConfig(cfg document.PrinterConfig) Option {
	return func(c *Config) {
		c.PrinterConfig = cfg.Clone()
	}
}
