package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Printer contains the connection settings of the target printer.
type Printer struct {
	// Transport is one of serial, tcp, usblp or websocket.
	Transport string `toml:"transport"`

	// Device is the serial port or printer device file.
	Device  string `toml:"device"`
	Address string `toml:"address"`
	URL     string `toml:"url"`

	BaudRate int    `toml:"baud_rate"`
	DataBits int    `toml:"data_bits"`
	Parity   string `toml:"parity"`
	StopBits string `toml:"stop_bits"`

	// Timeouts in seconds.
	SendTimeout     int `toml:"send_timeout"`
	ResponseTimeout int `toml:"response_timeout"`
}

// Document contains the defaults used when compiling documents.
type Document struct {
	CharactersPerLine int      `toml:"characters_per_line"`
	Codepages         []string `toml:"codepages"`
	StatusProbeAtEnd  bool     `toml:"status_probe_at_end"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Journal contains configuration for the print history database.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Lock contains configuration for per-device lock files.
type Lock struct {
	Dir string `toml:"dir"`
}

// Config encapsulates all configuration values for the escpos CLI.
type Config struct {
	Printer  Printer  `toml:"printer"`
	Document Document `toml:"document"`
	Logging  Logging  `toml:"logging"`
	Journal  Journal  `toml:"journal"`
	Lock     Lock     `toml:"lock"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads path (or the default location when empty) over Default(),
// then normalizes and validates the result. A missing file is not an error;
// the returned bool reports whether one was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if path == "" {
		path = defaultConfigPath
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, "", false, err
	}

	exists := true
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, "", false, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolved, exists, nil
}

// Marshal renders cfg as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// SendTimeout returns the configured write timeout.
func (c *Config) SendTimeout() time.Duration {
	return time.Duration(c.Printer.SendTimeout) * time.Second
}

// ResponseTimeout returns the configured reply timeout.
func (c *Config) ResponseTimeout() time.Duration {
	return time.Duration(c.Printer.ResponseTimeout) * time.Second
}
