package document

import (
	"fmt"

	"github.com/moffa90/go-escpos/codepage"
)

// Command is a single abstract printer instruction.
//
// The set of commands is closed: every implementation lives in this package
// and dispatches to exactly one method of Encoder. Protocol-specific
// instructions are expressed with Extended.
type Command interface {
	// Name is the display name of the command kind.
	Name() string

	// Effects lists the side effects the command has on the printer.
	Effects() Effects

	String() string

	encodeWith(e Encoder, st *State) ([]byte, error)
}

// Encode dispatches cmd to the matching Encoder method.
func Encode(cmd Command, e Encoder, st *State) ([]byte, error) {
	return cmd.encodeWith(e, st)
}

// Limits applied when commands are constructed.
const (
	MaxPulseMS            = 500
	MaxLineSpacing        = 255
	DefaultPulseMS        = 100
	DefaultBladeOffset    = 4
	bladeOffsetMultiplier = 2.5
)

// NoOp does nothing.
type NoOp struct{}

func (NoOp) Name() string     { return "NoOp" }
func (NoOp) Effects() Effects { return NoEffect }
func (NoOp) String() string   { return "NoOp" }
func (c NoOp) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeNoOp(c, st)
}

// Reset returns the printer to its power-on settings.
type Reset struct{}

func (Reset) Name() string     { return "Reset" }
func (Reset) Effects() Effects { return NoEffect }
func (Reset) String() string   { return "Reset" }
func (c Reset) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeReset(c, st)
}

// CutType selects how far the cutter goes through the paper.
type CutType uint8

// Cut types.
const (
	CutPartial CutType = iota
	CutComplete
	CutSkip
)

func (t CutType) String() string {
	switch t {
	case CutPartial:
		return "partial"
	case CutComplete:
		return "complete"
	case CutSkip:
		return "skip"
	default:
		return fmt.Sprintf("CutType(%d)", uint8(t))
	}
}

// Cut feeds the paper past the blade and cuts it.
type Cut struct {
	Type CutType

	// BladeOffsetLines is the distance between print head and blade in lines.
	BladeOffsetLines int
}

// NewCut returns a cut using the default blade offset.
func NewCut(t CutType) Cut {
	return Cut{Type: t, BladeOffsetLines: DefaultBladeOffset}
}

// FeedLines is the line spacing applied before the cut so the last printed
// line clears the blade.
func (c Cut) FeedLines() float64 {
	return float64(c.BladeOffsetLines) * bladeOffsetMultiplier
}

func (Cut) Name() string { return "Cut" }
func (c Cut) Effects() Effects {
	if c.Type == CutSkip {
		return NoEffect
	}
	return FeedsPaper | ActuatesCutter
}
func (c Cut) String() string {
	return fmt.Sprintf("Cut(%s, blade=%d)", c.Type, c.BladeOffsetLines)
}
func (c Cut) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeCut(c, st)
}

// OutputPin identifies a drawer kick connector pin.
type OutputPin uint8

// Output pins.
const (
	Drawer1 OutputPin = iota
	Drawer2
)

func (p OutputPin) String() string {
	if p == Drawer2 {
		return "drawer2"
	}
	return "drawer1"
}

// PulseOutput drives an output pin, usually to kick open a cash drawer.
type PulseOutput struct {
	Pin   OutputPin
	OnMS  int
	OffMS int
}

// NewPulseOutput clamps the on and off times to [0, MaxPulseMS].
func NewPulseOutput(pin OutputPin, onMS, offMS int) PulseOutput {
	return PulseOutput{
		Pin:   pin,
		OnMS:  Clamp(onMS, 0, MaxPulseMS),
		OffMS: Clamp(offMS, 0, MaxPulseMS),
	}
}

func (PulseOutput) Name() string     { return "PulseOutput" }
func (PulseOutput) Effects() Effects { return PulsesOutputPins }
func (c PulseOutput) String() string {
	return fmt.Sprintf("PulseOutput(%s, on=%dms, off=%dms)", c.Pin, c.OnMS, c.OffMS)
}
func (c PulseOutput) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodePulseOutput(c, st)
}

// TestPrintType selects the self-test page.
type TestPrintType uint8

// Test page kinds.
const (
	TestPrintHexadecimal TestPrintType = iota
	TestPrintPrinterStatus
	TestPrintRollingPattern
)

func (t TestPrintType) String() string {
	switch t {
	case TestPrintHexadecimal:
		return "hexadecimal"
	case TestPrintPrinterStatus:
		return "printerStatus"
	case TestPrintRollingPattern:
		return "rollingPattern"
	default:
		return fmt.Sprintf("TestPrintType(%d)", uint8(t))
	}
}

// TestPrint asks the printer to print one of its built-in test pages.
type TestPrint struct {
	Type TestPrintType
}

func (TestPrint) Name() string     { return "TestPrint" }
func (TestPrint) Effects() Effects { return FeedsPaper }
func (c TestPrint) String() string { return fmt.Sprintf("TestPrint(%s)", c.Type) }
func (c TestPrint) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeTestPrint(c, st)
}

// PrintConfiguration prints the printer's own settings page.
type PrintConfiguration struct{}

func (PrintConfiguration) Name() string     { return "PrintConfiguration" }
func (PrintConfiguration) Effects() Effects { return FeedsPaper }
func (PrintConfiguration) String() string   { return "PrintConfiguration" }
func (c PrintConfiguration) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodePrintConfiguration(c, st)
}

// Newline prints the buffer and feeds one line.
type Newline struct{}

func (Newline) Name() string     { return "Newline" }
func (Newline) Effects() Effects { return FeedsPaper }
func (Newline) String() string   { return "Newline" }
func (c Newline) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeNewline(c, st)
}

// TextFormatting changes text decoration.
type TextFormatting struct {
	Format TextFormat
}

func (TextFormatting) Name() string     { return "TextFormatting" }
func (TextFormatting) Effects() Effects { return NoEffect }
func (c TextFormatting) String() string { return "TextFormatting" + c.Format.String() }
func (c TextFormatting) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeTextFormatting(c, st)
}

// Text prints a run of text, switching codepages as needed.
type Text struct {
	Text string
}

func (Text) Name() string     { return "Text" }
func (Text) Effects() Effects { return NoEffect }
func (c Text) String() string { return fmt.Sprintf("Text(%q)", c.Text) }
func (c Text) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeText(c, st)
}

// TextDraw prints box-drawing characters at normal size in the drawing codepage.
type TextDraw struct {
	Text string
}

func (TextDraw) Name() string     { return "TextDraw" }
func (TextDraw) Effects() Effects { return NoEffect }
func (c TextDraw) String() string { return fmt.Sprintf("TextDraw(%q)", c.Text) }
func (c TextDraw) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeTextDraw(c, st)
}

// SetCodepage selects a character table explicitly.
type SetCodepage struct {
	Codepage codepage.Codepage
}

func (SetCodepage) Name() string     { return "SetCodepage" }
func (SetCodepage) Effects() Effects { return NoEffect }
func (c SetCodepage) String() string { return fmt.Sprintf("SetCodepage(%s)", c.Codepage) }
func (c SetCodepage) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeSetCodepage(c, st)
}

// OffsetPrintPosition moves the print position, in characters.
type OffsetPrintPosition struct {
	Offset int

	// Absolute measures Offset from the start of the line instead of the
	// current position.
	Absolute bool
}

func (OffsetPrintPosition) Name() string     { return "OffsetPrintPosition" }
func (OffsetPrintPosition) Effects() Effects { return NoEffect }
func (c OffsetPrintPosition) String() string {
	mode := "relative"
	if c.Absolute {
		mode = "absolute"
	}
	return fmt.Sprintf("OffsetPrintPosition(%d, %s)", c.Offset, mode)
}
func (c OffsetPrintPosition) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeOffsetPrintPosition(c, st)
}

// SetPrintArea sets the margins, in characters.
type SetPrintArea struct {
	Left  int
	Width int
	Right int
}

func (SetPrintArea) Name() string     { return "SetPrintArea" }
func (SetPrintArea) Effects() Effects { return NoEffect }
func (c SetPrintArea) String() string {
	return fmt.Sprintf("SetPrintArea(left=%d, width=%d, right=%d)", c.Left, c.Width, c.Right)
}
func (c SetPrintArea) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeSetPrintArea(c, st)
}

// SetLineSpacing sets the line feed distance, in lines.
type SetLineSpacing struct {
	Spacing float64
}

// NewSetLineSpacing clamps spacing to [0, MaxLineSpacing].
func NewSetLineSpacing(spacing float64) SetLineSpacing {
	if spacing < 0 {
		spacing = 0
	}
	if spacing > MaxLineSpacing {
		spacing = MaxLineSpacing
	}
	return SetLineSpacing{Spacing: spacing}
}

func (SetLineSpacing) Name() string     { return "SetLineSpacing" }
func (SetLineSpacing) Effects() Effects { return NoEffect }
func (c SetLineSpacing) String() string { return fmt.Sprintf("SetLineSpacing(%g)", c.Spacing) }
func (c SetLineSpacing) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeSetLineSpacing(c, st)
}

// RuleStyle selects the line glyph of a horizontal rule.
type RuleStyle uint8

// Rule styles.
const (
	RuleSingle RuleStyle = iota
	RuleDouble
)

// HorizontalRule draws a line across the paper.
type HorizontalRule struct {
	Style RuleStyle

	// Width in characters. Zero uses the printer's characters per line.
	Width int
}

func (HorizontalRule) Name() string     { return "HorizontalRule" }
func (HorizontalRule) Effects() Effects { return NoEffect }
func (c HorizontalRule) String() string {
	style := "single"
	if c.Style == RuleDouble {
		style = "double"
	}
	return fmt.Sprintf("HorizontalRule(%s, width=%d)", style, c.Width)
}
func (c HorizontalRule) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeHorizontalRule(c, st)
}

// Image prints a raster image.
type Image struct {
	Width  int
	Height int
	Pixels []byte
}

func (Image) Name() string     { return "Image" }
func (Image) Effects() Effects { return FeedsPaper }
func (c Image) String() string { return fmt.Sprintf("Image(%dx%d)", c.Width, c.Height) }
func (c Image) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeImage(c, st)
}

// Barcode prints a one-dimensional barcode.
type Barcode struct {
	Symbology string
	Data      string
}

func (Barcode) Name() string     { return "Barcode" }
func (Barcode) Effects() Effects { return FeedsPaper }
func (c Barcode) String() string { return fmt.Sprintf("Barcode(%s, %q)", c.Symbology, c.Data) }
func (c Barcode) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeBarcode(c, st)
}

// TwoDCode prints a two-dimensional symbol such as a QR code.
type TwoDCode struct {
	Symbology string
	Data      string
}

func (TwoDCode) Name() string     { return "TwoDCode" }
func (TwoDCode) Effects() Effects { return FeedsPaper }
func (c TwoDCode) String() string { return fmt.Sprintf("TwoDCode(%s, %q)", c.Symbology, c.Data) }
func (c TwoDCode) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeTwoDCode(c, st)
}

// Raw sends bytes to the printer unmodified.
type Raw struct {
	Data []byte
}

func (Raw) Name() string     { return "Raw" }
func (Raw) Effects() Effects { return NoEffect }
func (c Raw) String() string { return fmt.Sprintf("Raw(% X)", c.Data) }
func (c Raw) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeRaw(c, st)
}

// GetStatus probes the printer for its current status.
// Command sets expand it into protocol-specific probes.
type GetStatus struct{}

func (GetStatus) Name() string     { return "GetStatus" }
func (GetStatus) Effects() Effects { return WaitsForResponse }
func (GetStatus) String() string   { return "GetStatus" }
func (c GetStatus) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeGetStatus(c, st)
}

// GetConfiguration reads the printer's identity and capabilities.
// Command sets expand it into protocol-specific probes.
type GetConfiguration struct{}

// QueryConfiguration is an alias kept for callers that use the older name.
type QueryConfiguration = GetConfiguration

func (GetConfiguration) Name() string     { return "GetConfiguration" }
func (GetConfiguration) Effects() Effects { return WaitsForResponse }
func (GetConfiguration) String() string   { return "GetConfiguration" }
func (c GetConfiguration) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeGetConfiguration(c, st)
}

// Identify asks the printer for its type, to confirm the language spoken.
type Identify struct{}

func (Identify) Name() string     { return "Identify" }
func (Identify) Effects() Effects { return WaitsForResponse }
func (Identify) String() string   { return "Identify" }
func (c Identify) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeIdentify(c, st)
}

// Extended is a protocol-specific command resolved through the command set's
// registry by Key.
type Extended struct {
	// Key identifies the handler, scoped by protocol (e.g. "escpos.transmit-status").
	Key string

	// Label is the display name.
	Label string

	// Capabilities are the effects of the command.
	Capabilities Effects

	// Payload carries handler-specific arguments.
	Payload interface{}
}

func (c Extended) Name() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}
func (c Extended) Effects() Effects { return c.Capabilities }
func (c Extended) String() string {
	if c.Payload == nil {
		return c.Name()
	}
	return fmt.Sprintf("%s(%v)", c.Name(), c.Payload)
}
func (c Extended) encodeWith(e Encoder, st *State) ([]byte, error) {
	return e.EncodeExtended(c, st)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
