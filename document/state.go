package document

import "github.com/moffa90/go-escpos/codepage"

// Character cell size of the default font, in device motion units.
const (
	DefaultCharacterWidth  = 12
	DefaultCharacterHeight = 24
)

// Size is a width and height in device motion units.
type Size struct {
	Width  int
	Height int
}

// Margin is the print area, in characters.
type Margin struct {
	Left  int
	Width int
	Right int
}

// State tracks what the printer's settings will be after the commands
// encoded so far. A State belongs to a single document and is mutated only
// by encoders, in document order.
type State struct {
	Codepage      codepage.Codepage
	TextFormat    TextFormat
	LineSpacing   float64
	Margin        Margin
	CharacterSize Size

	// Effects accumulates the effects of every encoded command.
	Effects Effects

	// Config is the printer configuration at the start of the document.
	Config PrinterConfig
}

// NewState returns the state of a freshly reset printer described by cfg.
func NewState(cfg PrinterConfig) *State {
	return &State{
		Codepage:    codepage.CP437,
		LineSpacing: 1,
		Margin: Margin{
			Width: cfg.CharactersPerLine,
		},
		CharacterSize: Size{
			Width:  DefaultCharacterWidth,
			Height: DefaultCharacterHeight,
		},
		Config: cfg.Clone(),
	}
}
