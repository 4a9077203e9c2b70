package document

// Encoder turns each command kind into protocol bytes, updating st as the
// printer's state would change.
//
// Every command kind has its own method, so a new command cannot be added
// without every Encoder implementation handling it.
type Encoder interface {
	EncodeNoOp(cmd NoOp, st *State) ([]byte, error)
	EncodeReset(cmd Reset, st *State) ([]byte, error)
	EncodeCut(cmd Cut, st *State) ([]byte, error)
	EncodePulseOutput(cmd PulseOutput, st *State) ([]byte, error)
	EncodeTestPrint(cmd TestPrint, st *State) ([]byte, error)
	EncodePrintConfiguration(cmd PrintConfiguration, st *State) ([]byte, error)
	EncodeNewline(cmd Newline, st *State) ([]byte, error)
	EncodeTextFormatting(cmd TextFormatting, st *State) ([]byte, error)
	EncodeText(cmd Text, st *State) ([]byte, error)
	EncodeTextDraw(cmd TextDraw, st *State) ([]byte, error)
	EncodeSetCodepage(cmd SetCodepage, st *State) ([]byte, error)
	EncodeOffsetPrintPosition(cmd OffsetPrintPosition, st *State) ([]byte, error)
	EncodeSetPrintArea(cmd SetPrintArea, st *State) ([]byte, error)
	EncodeSetLineSpacing(cmd SetLineSpacing, st *State) ([]byte, error)
	EncodeHorizontalRule(cmd HorizontalRule, st *State) ([]byte, error)
	EncodeImage(cmd Image, st *State) ([]byte, error)
	EncodeBarcode(cmd Barcode, st *State) ([]byte, error)
	EncodeTwoDCode(cmd TwoDCode, st *State) ([]byte, error)
	EncodeRaw(cmd Raw, st *State) ([]byte, error)
	EncodeGetStatus(cmd GetStatus, st *State) ([]byte, error)
	EncodeGetConfiguration(cmd GetConfiguration, st *State) ([]byte, error)
	EncodeIdentify(cmd Identify, st *State) ([]byte, error)
	EncodeExtended(cmd Extended, st *State) ([]byte, error)
}

// CommandSet is a complete printer language: encoders, composite command
// expansion and reply parsing.
type CommandSet interface {
	Encoder

	// Language names the protocol, e.g. "escpos".
	Language() string

	// Noop is a byte sequence the printer ignores.
	Noop() []byte

	// DocumentStartCommands are prepended to every document.
	DocumentStartCommands() []Command

	// DocumentEndCommands are appended to every document.
	DocumentEndCommands() []Command

	// Expand replaces a composite command with the concrete commands that
	// implement it. A nil result means cmd is encoded directly.
	Expand(cmd Command) []Command

	// Combine joins encoded fragments into one buffer.
	Combine(parts ...[]byte) []byte

	// ParseMessage decodes the leading message in buf. awaited is the command
	// currently waiting for a reply, or nil.
	ParseMessage(buf []byte, awaited Command) (ParseResult, error)
}
