package escpos

import (
	"fmt"

	"github.com/moffa90/go-escpos/document"
)

// Keys of the built-in extended commands.
const (
	KeyTransmitPrinterStatus = "escpos.transmit-printer-status"
	KeyTransmitPrinterID     = "escpos.transmit-printer-id"
	KeySetAutoStatusBack     = "escpos.set-auto-status-back"
)

// StatusType selects the status byte requested with GS r.
type StatusType byte

// Status types.
const (
	PaperSensorStatus StatusType = 0x01
	DrawerKickStatus  StatusType = 0x02
)

func (s StatusType) String() string {
	switch s {
	case PaperSensorStatus:
		return "paperSensor"
	case DrawerKickStatus:
		return "drawerKick"
	default:
		return fmt.Sprintf("StatusType(0x%02X)", byte(s))
	}
}

// PrinterIDType selects the identification requested with GS I.
type PrinterIDType byte

// Printer ID types. The InfoB types reply with a NUL-terminated string, the
// others with a single byte.
const (
	ModelID              PrinterIDType = 0x01
	TypeID               PrinterIDType = 0x02
	VersionID            PrinterIDType = 0x03
	InfoBFirmwareVersion PrinterIDType = 0x41
	InfoBMakerName       PrinterIDType = 0x42
	InfoBModelName       PrinterIDType = 0x43
	InfoBSerialNo        PrinterIDType = 0x44
	InfoBFontLanguage    PrinterIDType = 0x45
)

// IsString reports whether the reply is a header, string and NUL.
func (p PrinterIDType) IsString() bool {
	return p >= InfoBFirmwareVersion && p <= InfoBFontLanguage
}

func (p PrinterIDType) String() string {
	switch p {
	case ModelID:
		return "modelID"
	case TypeID:
		return "typeID"
	case VersionID:
		return "versionID"
	case InfoBFirmwareVersion:
		return "firmwareVersion"
	case InfoBMakerName:
		return "makerName"
	case InfoBModelName:
		return "modelName"
	case InfoBSerialNo:
		return "serialNo"
	case InfoBFontLanguage:
		return "fontLanguage"
	default:
		return fmt.Sprintf("PrinterIDType(0x%02X)", byte(p))
	}
}

// ASBFlags selects which status changes the printer reports on its own.
type ASBFlags byte

// Auto status back flags.
const (
	ASBDrawer      ASBFlags = 0x01
	ASBOnline      ASBFlags = 0x02
	ASBError       ASBFlags = 0x04
	ASBRollPaper   ASBFlags = 0x08
	ASBPanelSwitch ASBFlags = 0x40

	ASBAll = ASBDrawer | ASBOnline | ASBError | ASBRollPaper | ASBPanelSwitch
)

// TransmitPrinterStatus requests one status byte (GS r n).
func TransmitPrinterStatus(t StatusType) document.Extended {
	return document.Extended{
		Key:          KeyTransmitPrinterStatus,
		Label:        "TransmitPrinterStatus",
		Capabilities: document.WaitsForResponse,
		Payload:      t,
	}
}

// TransmitPrinterID requests printer identification (GS I n).
func TransmitPrinterID(t PrinterIDType) document.Extended {
	return document.Extended{
		Key:          KeyTransmitPrinterID,
		Label:        "TransmitPrinterID",
		Capabilities: document.WaitsForResponse,
		Payload:      t,
	}
}

// SetAutoStatusBack enables unsolicited status frames (GS a n).
func SetAutoStatusBack(flags ASBFlags) document.Extended {
	return document.Extended{
		Key:     KeySetAutoStatusBack,
		Label:   "SetAutoStatusBack",
		Payload: flags,
	}
}

func builtinHandlers() map[string]Handler {
	return map[string]Handler{
		KeyTransmitPrinterStatus: {
			Encode: encodeTransmitPrinterStatus,
			Decode: decodeTransmitPrinterStatus,
		},
		KeyTransmitPrinterID: {
			Encode: encodeTransmitPrinterID,
			Decode: decodePrinterID,
		},
		KeySetAutoStatusBack: {
			Encode: encodeSetAutoStatusBack,
		},
	}
}

func encodeTransmitPrinterStatus(cmd document.Extended, st *document.State) ([]byte, error) {
	t, ok := cmd.Payload.(StatusType)
	if !ok {
		return nil, invalidPayload(cmd)
	}
	return []byte{GS, CmdTransmitStatus, byte(t)}, nil
}

func encodeTransmitPrinterID(cmd document.Extended, st *document.State) ([]byte, error) {
	t, ok := cmd.Payload.(PrinterIDType)
	if !ok {
		return nil, invalidPayload(cmd)
	}
	return []byte{GS, CmdTransmitPrinterID, byte(t)}, nil
}

func encodeSetAutoStatusBack(cmd document.Extended, st *document.State) ([]byte, error) {
	flags, ok := cmd.Payload.(ASBFlags)
	if !ok {
		return nil, invalidPayload(cmd)
	}
	return []byte{GS, CmdAutoStatusBack, byte(flags)}, nil
}

func invalidPayload(cmd document.Extended) error {
	return &document.ValidationError{
		Command: cmd.Name(),
		Reason:  fmt.Sprintf("Invalid payload %T", cmd.Payload),
	}
}
