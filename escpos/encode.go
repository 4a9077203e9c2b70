package escpos

import (
	"math"
	"strings"

	"github.com/moffa90/go-escpos/codepage"
	"github.com/moffa90/go-escpos/document"
)

// EncodeNoOp emits nothing.
func (cs *CommandSet) EncodeNoOp(cmd document.NoOp, st *document.State) ([]byte, error) {
	return nil, nil
}

// EncodeReset emits ESC @.
func (cs *CommandSet) EncodeReset(cmd document.Reset, st *document.State) ([]byte, error) {
	return []byte{ESC, CmdInitialize}, nil
}

// EncodeCut feeds the last line past the blade and cuts.
//
// The blade sits below the print head, so the line spacing is widened for a
// single line feed, the cut is made, and the previous spacing is restored:
//
//	[ESC 3 n][LF][GS V m][ESC 3 prev]
func (cs *CommandSet) EncodeCut(cmd document.Cut, st *document.State) ([]byte, error) {
	if cmd.Type == document.CutSkip {
		return nil, nil
	}

	op := byte(CutFull)
	if cmd.Type == document.CutPartial {
		op = CutPartial
	}

	previous := st.LineSpacing
	out := make([]byte, 0, 10)
	out = append(out, lineSpacing(cmd.FeedLines(), st)...)
	out = append(out, LF, GS, CmdCut, op)
	out = append(out, lineSpacing(previous, st)...)
	return out, nil
}

// EncodePulseOutput emits ESC p m t1 t2, with times in 2ms units.
func (cs *CommandSet) EncodePulseOutput(cmd document.PulseOutput, st *document.State) ([]byte, error) {
	pin := byte(0x00)
	if cmd.Pin == document.Drawer2 {
		pin = 0x01
	}
	on := document.Clamp(cmd.OnMS, 0, document.MaxPulseMS) / 2
	off := document.Clamp(cmd.OffMS, 0, document.MaxPulseMS) / 2
	return []byte{ESC, CmdPulse, pin, byte(on), byte(off)}, nil
}

// EncodeTestPrint emits GS ( A 02 00 01 m.
func (cs *CommandSet) EncodeTestPrint(cmd document.TestPrint, st *document.State) ([]byte, error) {
	page := byte(TestPatternRolling)
	switch cmd.Type {
	case document.TestPrintHexadecimal:
		page = TestPatternHexDump
	case document.TestPrintPrinterStatus:
		page = TestPatternPrinterStatus
	}
	return []byte{GS, '(', CmdTestPrint, 0x02, 0x00, 0x01, page}, nil
}

// EncodePrintConfiguration prints the printer status test page.
func (cs *CommandSet) EncodePrintConfiguration(cmd document.PrintConfiguration, st *document.State) ([]byte, error) {
	return cs.EncodeTestPrint(document.TestPrint{Type: document.TestPrintPrinterStatus}, st)
}

// EncodeNewline emits LF.
func (cs *CommandSet) EncodeNewline(cmd document.Newline, st *document.State) ([]byte, error) {
	return []byte{LF}, nil
}

// EncodeTextFormatting emits the opcodes for the fields present in the format.
// A format with ResetToDefault emits every field. An empty format emits
// nothing and leaves the state alone.
func (cs *CommandSet) EncodeTextFormatting(cmd document.TextFormatting, st *document.State) ([]byte, error) {
	return textFormatting(cmd.Format, st), nil
}

// EncodeText emits the text, prefixing each codepage run with ESC t n.
func (cs *CommandSet) EncodeText(cmd document.Text, st *document.State) ([]byte, error) {
	return cs.text(cmd.Text, st), nil
}

// EncodeTextDraw emits box-drawing text at normal size in the CP437 table.
func (cs *CommandSet) EncodeTextDraw(cmd document.TextDraw, st *document.State) ([]byte, error) {
	return cs.textDraw(cmd.Text, st), nil
}

// EncodeSetCodepage emits ESC t n. Codepages the printer cannot select
// fall back to CP437.
func (cs *CommandSet) EncodeSetCodepage(cmd document.SetCodepage, st *document.State) ([]byte, error) {
	return setCodepage(cmd.Codepage, st, true), nil
}

// EncodeOffsetPrintPosition emits ESC $ (absolute) or ESC \ (relative) with
// the offset converted to motion units.
func (cs *CommandSet) EncodeOffsetPrintPosition(cmd document.OffsetPrintPosition, st *document.State) ([]byte, error) {
	offset := cmd.Offset * st.CharacterSize.Width
	if cmd.Absolute {
		abs := document.Clamp(offset, 0, MaxAbsolutePosition)
		return []byte{ESC, CmdAbsolutePosition, byte(abs), byte(abs >> 8)}, nil
	}
	rel := uint16(int16(document.Clamp(offset, MinRelativePosition, MaxRelativePosition)))
	return []byte{ESC, CmdRelativePosition, byte(rel), byte(rel >> 8)}, nil
}

// EncodeSetPrintArea emits GS L and GS W. ESC/POS has no right margin
// command; the right margin is only tracked in the state.
func (cs *CommandSet) EncodeSetPrintArea(cmd document.SetPrintArea, st *document.State) ([]byte, error) {
	right := cmd.Right
	if right == 0 {
		right = max(st.Config.CharactersPerLine-cmd.Left-cmd.Width, 0)
	}
	st.Margin = document.Margin{Left: cmd.Left, Width: cmd.Width, Right: right}

	left := document.Clamp(cmd.Left*st.CharacterSize.Width, 0, 0xFFFF)
	width := document.Clamp(cmd.Width*st.CharacterSize.Width, 0, 0xFFFF)
	return []byte{
		GS, CmdLeftMargin, byte(left), byte(left >> 8),
		GS, CmdPrintAreaWidth, byte(width), byte(width >> 8),
	}, nil
}

// EncodeSetLineSpacing emits ESC 3 n.
func (cs *CommandSet) EncodeSetLineSpacing(cmd document.SetLineSpacing, st *document.State) ([]byte, error) {
	return lineSpacing(cmd.Spacing, st), nil
}

// EncodeHorizontalRule draws a rule of box-drawing characters.
func (cs *CommandSet) EncodeHorizontalRule(cmd document.HorizontalRule, st *document.State) ([]byte, error) {
	width := cmd.Width
	if width <= 0 {
		width = st.Config.CharactersPerLine
	}
	glyph := "─"
	if cmd.Style == document.RuleDouble {
		glyph = "═"
	}
	return cs.textDraw(strings.Repeat(glyph, width), st), nil
}

// EncodeImage is not supported.
func (cs *CommandSet) EncodeImage(cmd document.Image, st *document.State) ([]byte, error) {
	return nil, document.NotImplemented(cmd)
}

// EncodeBarcode is not supported.
func (cs *CommandSet) EncodeBarcode(cmd document.Barcode, st *document.State) ([]byte, error) {
	return nil, document.NotImplemented(cmd)
}

// EncodeTwoDCode is not supported.
func (cs *CommandSet) EncodeTwoDCode(cmd document.TwoDCode, st *document.State) ([]byte, error) {
	return nil, document.NotImplemented(cmd)
}

// EncodeRaw emits the bytes unchanged.
func (cs *CommandSet) EncodeRaw(cmd document.Raw, st *document.State) ([]byte, error) {
	out := make([]byte, len(cmd.Data))
	copy(out, cmd.Data)
	return out, nil
}

// EncodeGetStatus emits nothing; GetStatus is always expanded first.
func (cs *CommandSet) EncodeGetStatus(cmd document.GetStatus, st *document.State) ([]byte, error) {
	return nil, nil
}

// EncodeGetConfiguration emits nothing; GetConfiguration is always expanded first.
func (cs *CommandSet) EncodeGetConfiguration(cmd document.GetConfiguration, st *document.State) ([]byte, error) {
	return nil, nil
}

// EncodeIdentify emits nothing; Identify is always expanded first.
func (cs *CommandSet) EncodeIdentify(cmd document.Identify, st *document.State) ([]byte, error) {
	return nil, nil
}

// EncodeExtended runs the handler registered for the command's key.
func (cs *CommandSet) EncodeExtended(cmd document.Extended, st *document.State) ([]byte, error) {
	h, ok := cs.handlers[cmd.Key]
	if !ok || h.Encode == nil {
		return nil, &document.ValidationError{
			Command: cmd.Key,
			Reason:  "No ESC/POS handler for extended command",
			Err:     document.ErrUnknownExtendedCommand,
		}
	}
	return h.Encode(cmd, st)
}

func lineSpacing(spacing float64, st *document.State) []byte {
	units := math.Round(spacing * float64(st.CharacterSize.Height))
	n := document.Clamp(int(units), 0, MaxLineSpacingUnits)
	st.LineSpacing = spacing
	return []byte{ESC, CmdLineSpacing, byte(n)}
}

func textFormatting(f document.TextFormat, st *document.State) []byte {
	if f.IsEmpty() {
		return nil
	}
	f = f.Resolve()
	merged := st.TextFormat.Merge(f)

	var out []byte
	if f.Underline != document.UnderlineUnset {
		n := byte(UnderlineOff)
		switch f.Underline {
		case document.UnderlineSingle:
			n = UnderlineSingle
		case document.UnderlineDouble:
			n = UnderlineDouble
		}
		out = append(out, ESC, CmdUnderline, n, FS, CmdKanjiUnderline, n)
	}
	if f.Bold != document.ToggleUnset {
		out = append(out, ESC, CmdEmphasis, toggle(f.Bold))
	}
	if f.Invert != document.ToggleUnset {
		out = append(out, GS, CmdReverse, toggle(f.Invert))
	}
	if f.Alignment != document.AlignUnset {
		n := byte(JustifyLeft)
		switch f.Alignment {
		case document.AlignCenter:
			n = JustifyCenter
		case document.AlignRight:
			n = JustifyRight
		}
		out = append(out, ESC, CmdJustify, n)
	}
	if f.Width != 0 || f.Height != 0 {
		w, h := merged.Width, merged.Height
		if w == 0 {
			w = 1
		}
		if h == 0 {
			h = 1
		}
		merged.Width, merged.Height = w, h
		out = append(out, GS, CmdCharacterSize, (h-1)|(w-1)<<4)
	}

	st.TextFormat = merged
	return out
}

func toggle(t document.Toggle) byte {
	if t == document.On {
		return 0x01
	}
	return 0x00
}

func setCodepage(cp codepage.Codepage, st *document.State, persist bool) []byte {
	n, ok := CodeTable(cp)
	if !ok {
		cp = codepage.CP437
	}
	if persist {
		st.Codepage = cp
	}
	return []byte{ESC, CmdCodeTable, n}
}

func (cs *CommandSet) text(s string, st *document.State) []byte {
	frags := codepage.AutoEncode(s, st.Codepage, cs.candidatesFor(st))
	var out []byte
	for _, f := range frags {
		out = append(out, setCodepage(f.Codepage, st, true)...)
		out = append(out, f.Bytes...)
	}
	return out
}

// textDraw resets the size, leaves Kanji mode and selects CP437 for the
// line-drawing glyphs before printing s. The codepage switch is not
// recorded in the state; the text that follows selects its own.
func (cs *CommandSet) textDraw(s string, st *document.State) []byte {
	out := textFormatting(document.TextFormat{Width: 1, Height: 1}, st)
	out = append(out,
		FS, CmdKanjiCodeSystem, 0x00,
		FS, CmdCancelKanji,
		ESC, CmdCodeTable, codeTables[codepage.CP437],
	)
	return append(out, cs.text(s, st)...)
}
