package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/moffa90/go-escpos/codepage"
)

func (c *Config) normalize() error {
	c.Printer.Transport = strings.ToLower(strings.TrimSpace(c.Printer.Transport))
	c.Printer.Parity = strings.ToLower(strings.TrimSpace(c.Printer.Parity))
	c.Printer.Device = strings.TrimSpace(c.Printer.Device)
	c.Printer.Address = strings.TrimSpace(c.Printer.Address)
	c.Printer.URL = strings.TrimSpace(c.Printer.URL)

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "auto"
	}

	for i, name := range c.Document.Codepages {
		if cp, ok := codepage.Parse(strings.TrimSpace(name)); ok {
			c.Document.Codepages[i] = string(cp)
		}
	}

	var err error
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	if c.Lock.Dir, err = expandPath(c.Lock.Dir); err != nil {
		return fmt.Errorf("lock.dir: %w", err)
	}
	return nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
