package config

import (
	"fmt"

	"github.com/moffa90/go-escpos/codepage"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePrinter(); err != nil {
		return err
	}
	if err := c.validateDocument(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("journal.path is required when the journal is enabled")
	}
	if c.Lock.Dir == "" {
		return fmt.Errorf("lock.dir must not be empty")
	}
	return nil
}

func (c *Config) validatePrinter() error {
	p := c.Printer
	switch p.Transport {
	case TransportSerial, TransportUSBLP:
		if p.Device == "" {
			return fmt.Errorf("printer.device is required for the %s transport", p.Transport)
		}
	case TransportTCP:
		if p.Address == "" {
			return fmt.Errorf("printer.address is required for the tcp transport")
		}
	case TransportWebSocket:
		if p.URL == "" {
			return fmt.Errorf("printer.url is required for the websocket transport")
		}
	default:
		return fmt.Errorf("printer.transport: unsupported value %q (want serial, tcp, usblp or websocket)", p.Transport)
	}

	if p.Transport == TransportSerial && p.BaudRate <= 0 {
		return fmt.Errorf("printer.baud_rate must be positive")
	}
	if p.SendTimeout <= 0 {
		return fmt.Errorf("printer.send_timeout must be positive")
	}
	if p.ResponseTimeout <= 0 {
		return fmt.Errorf("printer.response_timeout must be positive")
	}
	return nil
}

func (c *Config) validateDocument() error {
	if cpl := c.Document.CharactersPerLine; cpl < 1 || cpl > 255 {
		return fmt.Errorf("document.characters_per_line must be between 1 and 255, got %d", cpl)
	}
	for _, name := range c.Document.Codepages {
		if _, ok := codepage.Parse(name); !ok {
			return fmt.Errorf("document.codepages: unknown codepage %q", name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// CodepageList returns the configured codepages, or nil when every supported
// codepage may be used.
func (c *Config) CodepageList() []codepage.Codepage {
	if len(c.Document.Codepages) == 0 {
		return nil
	}
	out := make([]codepage.Codepage, 0, len(c.Document.Codepages))
	for _, name := range c.Document.Codepages {
		if cp, ok := codepage.Parse(name); ok {
			out = append(out, cp)
		}
	}
	return out
}
