package document

import "github.com/moffa90/go-escpos/codepage"

// CutterType describes the cuts a printer can make.
type CutterType uint8

// Cutter types.
const (
	CutterNone CutterType = iota
	CutterPartial
	CutterComplete
	CutterMultiple
)

func (c CutterType) String() string {
	switch c {
	case CutterPartial:
		return "partial"
	case CutterComplete:
		return "complete"
	case CutterMultiple:
		return "multiple"
	default:
		return "none"
	}
}

// Orientation is the print direction.
type Orientation uint8

// Orientations.
const (
	OrientationNormal Orientation = iota
	OrientationUpsideDown
)

func (o Orientation) String() string {
	if o == OrientationUpsideDown {
		return "upside-down"
	}
	return "normal"
}

// Default configuration values reported before a printer answers.
const (
	DefaultSerialNumber      = "no_serial_nm"
	DefaultModel             = "Unknown Model"
	DefaultManufacturer      = "Unknown Manufacturer"
	DefaultCharactersPerLine = 42
	DefaultDarknessPercent   = 50
)

// DeviceInfo is what a transport knows about the device it is connected to.
type DeviceInfo struct {
	Model        string
	SerialNumber string
	Manufacturer string
}

// PrinterConfig holds the observed capabilities of a connected printer.
type PrinterConfig struct {
	SerialNumber string
	Model        string
	Manufacturer string
	Firmware     string

	// Codepages the printer is known to support, in preference order.
	Codepages []codepage.Codepage

	Cutter              CutterType
	CharactersPerLine   int
	DarknessPercent     int
	Orientation         Orientation
	HasMultiByteSupport bool
	HasDMDConnected     bool
	FontLanguageSupport string
}

// DefaultPrinterConfig returns the configuration assumed for an unknown printer.
func DefaultPrinterConfig() PrinterConfig {
	return PrinterConfig{
		SerialNumber:      DefaultSerialNumber,
		Model:             DefaultModel,
		Manufacturer:      DefaultManufacturer,
		Codepages:         codepage.All(),
		Cutter:            CutterNone,
		CharactersPerLine: DefaultCharactersPerLine,
		DarknessPercent:   DefaultDarknessPercent,
		Orientation:       OrientationNormal,
	}
}

// Clone returns a deep copy of c.
func (c PrinterConfig) Clone() PrinterConfig {
	if c.Codepages != nil {
		cps := make([]codepage.Codepage, len(c.Codepages))
		copy(cps, c.Codepages)
		c.Codepages = cps
	}
	return c
}

// Update applies the fields present in msg.
func (c *PrinterConfig) Update(msg SettingUpdateMessage) {
	if msg.SerialNumber != nil {
		c.SerialNumber = *msg.SerialNumber
	}
	if msg.Model != nil {
		c.Model = *msg.Model
	}
	if msg.Manufacturer != nil {
		c.Manufacturer = *msg.Manufacturer
	}
	if msg.Firmware != nil {
		c.Firmware = *msg.Firmware
	}
	if msg.FontLanguageSupport != nil {
		c.FontLanguageSupport = *msg.FontLanguageSupport
	}
	if msg.HasMultiByteSupport != nil {
		c.HasMultiByteSupport = *msg.HasMultiByteSupport
	}
	if msg.HasDMDConnected != nil {
		c.HasDMDConnected = *msg.HasDMDConnected
	}
	if msg.HasAutocutter != nil {
		switch {
		case !*msg.HasAutocutter:
			c.Cutter = CutterNone
		case c.Cutter == CutterNone:
			c.Cutter = CutterMultiple
		}
	}
	if msg.Cutter != nil {
		c.Cutter = *msg.Cutter
	}
	if msg.CharactersPerLine != nil && *msg.CharactersPerLine > 0 {
		c.CharactersPerLine = *msg.CharactersPerLine
	}
	if msg.DarknessPercent != nil {
		c.DarknessPercent = Clamp(*msg.DarknessPercent, 0, 100)
	}
	if msg.Orientation != nil {
		c.Orientation = *msg.Orientation
	}
	if msg.Codepages != nil {
		cps := make([]codepage.Codepage, len(msg.Codepages))
		copy(cps, msg.Codepages)
		c.Codepages = cps
	}
}

// UpdateFromDeviceInfo copies the non-empty identity fields reported by a transport.
func (c *PrinterConfig) UpdateFromDeviceInfo(info DeviceInfo) {
	if info.Model != "" {
		c.Model = info.Model
	}
	if info.SerialNumber != "" {
		c.SerialNumber = info.SerialNumber
	}
	if info.Manufacturer != "" {
		c.Manufacturer = info.Manufacturer
	}
}
