package escpos

// Language is the identifier reported by CommandSet.Language.
const Language = "escpos"

// Control characters.
const (
	NUL  = 0x00
	LF   = 0x0A
	DLE  = 0x10
	XON  = 0x11
	XOFF = 0x13
	ESC  = 0x1B
	FS   = 0x1C
	GS   = 0x1D
)

// ESC command bytes (second byte after ESC).
const (
	// CmdInitialize resets the printer (ESC @)
	CmdInitialize = 0x40

	// CmdPulse generates a drawer kick pulse (ESC p m t1 t2)
	CmdPulse = 0x70

	// CmdUnderline sets underline mode (ESC - n)
	CmdUnderline = 0x2D

	// CmdEmphasis turns bold on or off (ESC E n)
	CmdEmphasis = 0x45

	// CmdJustify sets alignment (ESC a n)
	CmdJustify = 0x61

	// CmdLineSpacing sets line spacing in motion units (ESC 3 n)
	CmdLineSpacing = 0x33

	// CmdCodeTable selects a character code table (ESC t n)
	CmdCodeTable = 0x74

	// CmdAbsolutePosition sets the absolute print position (ESC $ nL nH)
	CmdAbsolutePosition = 0x24

	// CmdRelativePosition sets the relative print position (ESC \ nL nH)
	CmdRelativePosition = 0x5C
)

// GS command bytes (second byte after GS).
const (
	// CmdCharacterSize sets width and height magnification (GS ! n)
	CmdCharacterSize = 0x21

	// CmdReverse turns white/black reverse printing on or off (GS B n)
	CmdReverse = 0x42

	// CmdCut cuts the paper (GS V m)
	CmdCut = 0x56

	// CmdLeftMargin sets the left margin (GS L nL nH)
	CmdLeftMargin = 0x4C

	// CmdPrintAreaWidth sets the print area width (GS W nL nH)
	CmdPrintAreaWidth = 0x57

	// CmdTransmitStatus requests a status byte (GS r n)
	CmdTransmitStatus = 0x72

	// CmdTransmitPrinterID requests printer identification (GS I n)
	CmdTransmitPrinterID = 0x49

	// CmdAutoStatusBack enables automatic status back (GS a n)
	CmdAutoStatusBack = 0x61

	// CmdTestPrint runs a test print (GS ( A pL pH n m)
	CmdTestPrint = 0x41
)

// FS command bytes (second byte after FS).
const (
	// CmdKanjiUnderline sets Kanji underline mode (FS - n)
	CmdKanjiUnderline = 0x2D

	// CmdCancelKanji cancels Kanji character mode (FS .)
	CmdCancelKanji = 0x2E

	// CmdKanjiCodeSystem selects the Kanji code system (FS C n)
	CmdKanjiCodeSystem = 0x43
)

// Cut sub-commands (GS V m).
const (
	CutFull    = 0x00
	CutPartial = 0x01
)

// Test print patterns (GS ( A m).
const (
	TestPatternHexDump       = 0x01
	TestPatternPrinterStatus = 0x02
	TestPatternRolling       = 0x03
)

// Underline weights.
const (
	UnderlineOff    = 0x00
	UnderlineSingle = 0x01
	UnderlineDouble = 0x02
)

// Justification values.
const (
	JustifyLeft   = 0x00
	JustifyCenter = 0x01
	JustifyRight  = 0x02
)

// Value limits.
const (
	// MaxAbsolutePosition is the largest ESC $ offset
	MaxAbsolutePosition = 0xFFFF

	// MinRelativePosition and MaxRelativePosition bound the ESC \ offset
	MinRelativePosition = -0x8000
	MaxRelativePosition = 0x7FFF

	// MaxLineSpacingUnits is the largest ESC 3 value
	MaxLineSpacingUnits = 0xFF

	// ASBFrameSize is the length of an automatic status back frame
	ASBFrameSize = 4
)
