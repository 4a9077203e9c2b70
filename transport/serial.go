package transport

import (
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/moffa90/go-escpos/document"
)

// SerialConfig describes the line settings of a serial printer.
type SerialConfig struct {
	BaudRate int
	DataBits int

	// Parity is one of "none", "odd", "even", "mark" or "space".
	Parity string

	// StopBits is one of "1", "1.5" or "2".
	StopBits string

	// ReadTimeout bounds a single read so Close is noticed promptly.
	ReadTimeout time.Duration
}

// DefaultSerialConfig returns 9600 baud, 8 data bits, no parity, one stop bit.
func DefaultSerialConfig() SerialConfig {
	return SerialConfig{
		BaudRate:    9600,
		DataBits:    8,
		Parity:      "none",
		StopBits:    "1",
		ReadTimeout: 100 * time.Millisecond,
	}
}

// Mode converts c to the serial line mode.
func (c SerialConfig) Mode() (*serial.Mode, error) {
	parity, err := parseParity(c.Parity)
	if err != nil {
		return nil, err
	}
	stopBits, err := parseStopBits(c.StopBits)
	if err != nil {
		return nil, err
	}
	if c.DataBits != 0 && (c.DataBits < 5 || c.DataBits > 8) {
		return nil, fmt.Errorf("invalid data bits %d", c.DataBits)
	}

	mode := &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		Parity:   parity,
		StopBits: stopBits,
	}
	if mode.BaudRate <= 0 {
		mode.BaudRate = 9600
	}
	if mode.DataBits == 0 {
		mode.DataBits = 8
	}
	return mode, nil
}

func parseParity(s string) (serial.Parity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "n":
		return serial.NoParity, nil
	case "odd", "o":
		return serial.OddParity, nil
	case "even", "e":
		return serial.EvenParity, nil
	case "mark", "m":
		return serial.MarkParity, nil
	case "space", "s":
		return serial.SpaceParity, nil
	default:
		return serial.NoParity, fmt.Errorf("invalid parity %q", s)
	}
}

func parseStopBits(s string) (serial.StopBits, error) {
	switch strings.TrimSpace(s) {
	case "", "1":
		return serial.OneStopBit, nil
	case "1.5":
		return serial.OnePointFiveStopBits, nil
	case "2":
		return serial.TwoStopBits, nil
	default:
		return serial.OneStopBit, fmt.Errorf("invalid stop bits %q", s)
	}
}

// OpenSerial opens a serial printer.
//
// Example:
//
//	cfg := transport.DefaultSerialConfig()
//	cfg.BaudRate = 38400
//	t, err := transport.OpenSerial("/dev/ttyUSB0", cfg)
func OpenSerial(name string, cfg SerialConfig) (*Stream, error) {
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}

	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultSerialConfig().ReadTimeout
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	return newStream(port, serialDeviceInfo(name), nil), nil
}

// PortInfo describes a serial port found on the system.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// ListSerialPorts returns the serial ports present on the system, with USB
// details where the platform provides them.
func ListSerialPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err == nil {
		ports := make([]PortInfo, 0, len(details))
		for _, d := range details {
			ports = append(ports, PortInfo{
				Name:         d.Name,
				IsUSB:        d.IsUSB,
				VID:          d.VID,
				PID:          d.PID,
				SerialNumber: d.SerialNumber,
				Product:      d.Product,
			})
		}
		return ports, nil
	}

	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	ports := make([]PortInfo, len(names))
	for i, name := range names {
		ports[i] = PortInfo{Name: name}
	}
	return ports, nil
}

func serialDeviceInfo(name string) document.DeviceInfo {
	ports, err := ListSerialPorts()
	if err != nil {
		return document.DeviceInfo{}
	}
	for _, p := range ports {
		if p.Name == name {
			return document.DeviceInfo{
				Model:        p.Product,
				SerialNumber: p.SerialNumber,
			}
		}
	}
	return document.DeviceInfo{}
}
