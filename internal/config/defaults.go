package config

const (
	defaultConfigPath  = "~/.config/escpos/config.toml"
	defaultJournalPath = "~/.local/share/escpos/journal.db"
	defaultLockDir     = "~/.cache/escpos/locks"
)

// Transports.
const (
	TransportSerial    = "serial"
	TransportTCP       = "tcp"
	TransportUSBLP     = "usblp"
	TransportWebSocket = "websocket"
)

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Printer: Printer{
			Transport:       TransportUSBLP,
			Device:          "/dev/usb/lp0",
			BaudRate:        9600,
			DataBits:        8,
			Parity:          "none",
			StopBits:        "1",
			SendTimeout:     5,
			ResponseTimeout: 5,
		},
		Document: Document{
			CharactersPerLine: 42,
		},
		Logging: Logging{
			Level:  "info",
			Format: "auto",
		},
		Journal: Journal{
			Enabled: true,
			Path:    defaultJournalPath,
		},
		Lock: Lock{
			Dir: defaultLockDir,
		},
	}
}
