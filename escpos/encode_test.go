package escpos

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/moffa90/go-escpos/codepage"
	"github.com/moffa90/go-escpos/document"
)

func newState() *document.State {
	return document.NewState(document.DefaultPrinterConfig())
}

func encode(t *testing.T, cs *CommandSet, cmd document.Command, st *document.State) []byte {
	t.Helper()
	got, err := document.Encode(cmd, cs, st)
	if err != nil {
		t.Fatalf("Encode(%s) error = %v", cmd, err)
	}
	return got
}

func TestEncodeFixedCommands(t *testing.T) {
	cs := New()

	tests := []struct {
		name string
		cmd  document.Command
		want []byte
	}{
		{name: "reset", cmd: document.Reset{}, want: []byte{0x1B, 0x40}},
		{name: "newline", cmd: document.Newline{}, want: []byte{0x0A}},
		{name: "noop", cmd: document.NoOp{}, want: nil},
		{name: "raw", cmd: document.Raw{Data: []byte{0x1B, 0x42, 0x02, 0x02}}, want: []byte{0x1B, 0x42, 0x02, 0x02}},
		{
			name: "pulse drawer 1",
			cmd:  document.NewPulseOutput(document.Drawer1, 100, 100),
			want: []byte{0x1B, 0x70, 0x00, 0x32, 0x32},
		},
		{
			name: "pulse drawer 2 clamped",
			cmd:  document.NewPulseOutput(document.Drawer2, 1000, 201),
			want: []byte{0x1B, 0x70, 0x01, 0xFA, 0x64},
		},
		{
			name: "test print hexadecimal",
			cmd:  document.TestPrint{Type: document.TestPrintHexadecimal},
			want: []byte{0x1D, 0x28, 0x41, 0x02, 0x00, 0x01, 0x01},
		},
		{
			name: "test print rolling",
			cmd:  document.TestPrint{Type: document.TestPrintRollingPattern},
			want: []byte{0x1D, 0x28, 0x41, 0x02, 0x00, 0x01, 0x03},
		},
		{
			name: "print configuration",
			cmd:  document.PrintConfiguration{},
			want: []byte{0x1D, 0x28, 0x41, 0x02, 0x00, 0x01, 0x02},
		},
		{name: "cut skip", cmd: document.NewCut(document.CutSkip), want: nil},
		{
			name: "set auto status back",
			cmd:  SetAutoStatusBack(ASBAll),
			want: []byte{0x1D, 0x61, 0x4F},
		},
		{
			name: "transmit status",
			cmd:  TransmitPrinterStatus(DrawerKickStatus),
			want: []byte{0x1D, 0x72, 0x02},
		},
		{
			name: "transmit printer id",
			cmd:  TransmitPrinterID(InfoBSerialNo),
			want: []byte{0x1D, 0x49, 0x44},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encode(t, cs, tt.cmd, newState())
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestEncodeCut(t *testing.T) {
	tests := []struct {
		name string
		cut  document.CutType
		op   byte
	}{
		{name: "partial", cut: document.CutPartial, op: 0x01},
		{name: "complete", cut: document.CutComplete, op: 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newState()
			got := encode(t, New(), document.NewCut(tt.cut), st)

			want := []byte{
				0x1B, 0x33, 0xF0, // 4 lines x 2.5 x 24 units
				0x0A,
				0x1D, 0x56, tt.op,
				0x1B, 0x33, 0x18, // restore 1 line
			}
			if !bytes.Equal(got, want) {
				t.Errorf("Encode() = % X, want % X", got, want)
			}
			if st.LineSpacing != 1 {
				t.Errorf("LineSpacing = %g, want 1 (restored)", st.LineSpacing)
			}
		})
	}
}

func TestEncodeCutRestoresCustomSpacing(t *testing.T) {
	cs := New()
	st := newState()
	encode(t, cs, document.NewSetLineSpacing(2), st)

	got := encode(t, cs, document.Cut{Type: document.CutPartial, BladeOffsetLines: 3}, st)

	// Decode the three opcode groups back out of the buffer.
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10: % X", len(got), got)
	}
	if got[0] != ESC || got[1] != CmdLineSpacing || got[2] != 180 {
		t.Errorf("feed spacing = % X, want 1B 33 B4", got[:3])
	}
	if !bytes.Equal(got[3:7], []byte{LF, GS, CmdCut, CutPartial}) {
		t.Errorf("feed and cut = % X", got[3:7])
	}
	if got[7] != ESC || got[8] != CmdLineSpacing || got[9] != 48 {
		t.Errorf("restore spacing = % X, want 1B 33 30", got[7:])
	}
	if st.LineSpacing != 2 {
		t.Errorf("LineSpacing = %g, want 2", st.LineSpacing)
	}
}

func TestEncodeTextFormatting(t *testing.T) {
	tests := []struct {
		name   string
		format document.TextFormat
		want   []byte
	}{
		{
			name:   "bold",
			format: document.TextFormat{Bold: document.On},
			want:   []byte{0x1B, 0x45, 0x01},
		},
		{
			name:   "underline double",
			format: document.TextFormat{Underline: document.UnderlineDouble},
			want:   []byte{0x1B, 0x2D, 0x02, 0x1C, 0x2D, 0x02},
		},
		{
			name:   "invert and right",
			format: document.TextFormat{Invert: document.On, Alignment: document.AlignRight},
			want:   []byte{0x1D, 0x42, 0x01, 0x1B, 0x61, 0x02},
		},
		{
			name:   "size",
			format: document.TextFormat{Width: 2, Height: 3},
			want:   []byte{0x1D, 0x21, 0x12},
		},
		{
			name:   "height only",
			format: document.TextFormat{Height: 2},
			want:   []byte{0x1D, 0x21, 0x01},
		},
		{
			name:   "reset",
			format: document.TextFormat{ResetToDefault: true},
			want: []byte{
				0x1B, 0x2D, 0x00, 0x1C, 0x2D, 0x00,
				0x1B, 0x45, 0x00,
				0x1D, 0x42, 0x00,
				0x1B, 0x61, 0x00,
				0x1D, 0x21, 0x00,
			},
		},
		{
			name:   "reset with override",
			format: document.TextFormat{ResetToDefault: true, Alignment: document.AlignCenter, Width: 2},
			want: []byte{
				0x1B, 0x2D, 0x00, 0x1C, 0x2D, 0x00,
				0x1B, 0x45, 0x00,
				0x1D, 0x42, 0x00,
				0x1B, 0x61, 0x01,
				0x1D, 0x21, 0x10,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encode(t, New(), document.TextFormatting{Format: tt.format}, newState())
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestEncodeEmptyTextFormattingIsIdempotent(t *testing.T) {
	cs := New()
	st := newState()
	encode(t, cs, document.TextFormatting{Format: document.TextFormat{Bold: document.On, Width: 2}}, st)
	before := *st

	got := encode(t, cs, document.TextFormatting{}, st)
	if len(got) != 0 {
		t.Errorf("Encode() = % X, want no bytes", got)
	}
	if st.TextFormat != before.TextFormat {
		t.Errorf("TextFormat = %s, want %s", st.TextFormat, before.TextFormat)
	}
}

func TestEncodeTextFormattingKeepsSize(t *testing.T) {
	cs := New()
	st := newState()
	encode(t, cs, document.TextFormatting{Format: document.TextFormat{Width: 3, Height: 2}}, st)

	got := encode(t, cs, document.TextFormatting{Format: document.TextFormat{Width: 1}}, st)
	want := []byte{0x1D, 0x21, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode() = % X, want % X", got, want)
	}
	if st.TextFormat.Height != 2 || st.TextFormat.Width != 1 {
		t.Errorf("TextFormat = %s", st.TextFormat)
	}
}

func TestEncodeOffsetPrintPosition(t *testing.T) {
	tests := []struct {
		name string
		cmd  document.OffsetPrintPosition
		want []byte
	}{
		{name: "absolute", cmd: document.OffsetPrintPosition{Offset: 2, Absolute: true}, want: []byte{0x1B, 0x24, 0x18, 0x00}},
		{name: "absolute negative clamps to zero", cmd: document.OffsetPrintPosition{Offset: -1, Absolute: true}, want: []byte{0x1B, 0x24, 0x00, 0x00}},
		{name: "absolute clamps high", cmd: document.OffsetPrintPosition{Offset: 10000, Absolute: true}, want: []byte{0x1B, 0x24, 0xFF, 0xFF}},
		{name: "relative forward", cmd: document.OffsetPrintPosition{Offset: 30}, want: []byte{0x1B, 0x5C, 0x68, 0x01}},
		{name: "relative backward", cmd: document.OffsetPrintPosition{Offset: -1}, want: []byte{0x1B, 0x5C, 0xF4, 0xFF}},
		{name: "relative clamps high", cmd: document.OffsetPrintPosition{Offset: 10000}, want: []byte{0x1B, 0x5C, 0xFF, 0x7F}},
		{name: "relative clamps low", cmd: document.OffsetPrintPosition{Offset: -10000}, want: []byte{0x1B, 0x5C, 0x00, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encode(t, New(), tt.cmd, newState())
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestEncodeSetPrintArea(t *testing.T) {
	st := newState()
	got := encode(t, New(), document.SetPrintArea{Left: 2, Width: 38}, st)

	want := []byte{0x1D, 0x4C, 0x18, 0x00, 0x1D, 0x57, 0xC8, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode() = % X, want % X", got, want)
	}
	if st.Margin != (document.Margin{Left: 2, Width: 38, Right: 2}) {
		t.Errorf("Margin = %+v", st.Margin)
	}
}

func TestEncodeSetLineSpacing(t *testing.T) {
	tests := []struct {
		spacing float64
		want    byte
	}{
		{spacing: 1, want: 24},
		{spacing: 0.5, want: 12},
		{spacing: 0, want: 0},
		{spacing: 20, want: 255},
	}

	for _, tt := range tests {
		st := newState()
		got := encode(t, New(), document.SetLineSpacing{Spacing: tt.spacing}, st)
		want := []byte{0x1B, 0x33, tt.want}
		if !bytes.Equal(got, want) {
			t.Errorf("SetLineSpacing(%g) = % X, want % X", tt.spacing, got, want)
		}
		if st.LineSpacing != tt.spacing {
			t.Errorf("LineSpacing = %g, want %g", st.LineSpacing, tt.spacing)
		}
	}
}

func TestEncodeSetCodepage(t *testing.T) {
	cs := New()
	st := newState()

	got := encode(t, cs, document.SetCodepage{Codepage: codepage.WPC1252}, st)
	if !bytes.Equal(got, []byte{0x1B, 0x74, 0x10}) {
		t.Errorf("Encode(WPC1252) = % X, want 1B 74 10", got)
	}
	if st.Codepage != codepage.WPC1252 {
		t.Errorf("Codepage = %s, want WPC1252", st.Codepage)
	}

	got = encode(t, cs, document.SetCodepage{Codepage: "CP999"}, st)
	if !bytes.Equal(got, []byte{0x1B, 0x74, 0x00}) {
		t.Errorf("Encode(CP999) = % X, want 1B 74 00", got)
	}
	if st.Codepage != codepage.CP437 {
		t.Errorf("Codepage = %s, want fallback CP437", st.Codepage)
	}
}

func TestEncodeText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		config []codepage.Codepage
		want   []byte
		wantCP codepage.Codepage
	}{
		{
			name:   "ascii",
			text:   "Hi",
			want:   []byte{0x1B, 0x74, 0x00, 'H', 'i'},
			wantCP: codepage.CP437,
		},
		{
			name:   "empty",
			text:   "",
			want:   nil,
			wantCP: codepage.CP437,
		},
		{
			name:   "euro switches codepage",
			text:   "a€",
			want:   []byte{0x1B, 0x74, 0x00, 'a', 0x1B, 0x74, 0x13, 0xD5},
			wantCP: codepage.CP858,
		},
		{
			name:   "printer codepages narrow candidates",
			text:   "€",
			config: []codepage.Codepage{codepage.CP437, codepage.WPC1252},
			want:   []byte{0x1B, 0x74, 0x10, 0x80},
			wantCP: codepage.WPC1252,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newState()
			if tt.config != nil {
				st.Config.Codepages = tt.config
			}
			got := encode(t, New(), document.Text{Text: tt.text}, st)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = % X, want % X", got, tt.want)
			}
			if st.Codepage != tt.wantCP {
				t.Errorf("Codepage = %s, want %s", st.Codepage, tt.wantCP)
			}
		})
	}
}

func TestEncodeWithCandidateCodepages(t *testing.T) {
	cs := New(WithCandidateCodepages(codepage.CP437, codepage.WPC1252))
	got := encode(t, cs, document.Text{Text: "€"}, newState())
	want := []byte{0x1B, 0x74, 0x10, 0x80}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode() = % X, want % X", got, want)
	}
}

func TestEncodeTextDraw(t *testing.T) {
	st := newState()
	st.Codepage = codepage.WPC1252

	got := encode(t, New(), document.TextDraw{Text: "─"}, st)
	want := []byte{
		0x1D, 0x21, 0x00,
		0x1C, 0x43, 0x00,
		0x1C, 0x2E,
		0x1B, 0x74, 0x00,
		0x1B, 0x74, 0x00, 0xC4,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode() = % X, want % X", got, want)
	}
}

func TestEncodeHorizontalRule(t *testing.T) {
	cs := New()

	got := encode(t, cs, document.HorizontalRule{Style: document.RuleDouble, Width: 3}, newState())
	if !bytes.HasSuffix(got, []byte{0x1B, 0x74, 0x00, 0xCD, 0xCD, 0xCD}) {
		t.Errorf("Encode() = % X, want three double rules", got)
	}

	got = encode(t, cs, document.HorizontalRule{}, newState())
	if n := bytes.Count(got, []byte{0xC4}); n != document.DefaultCharactersPerLine {
		t.Errorf("default rule has %d glyphs, want %d", n, document.DefaultCharactersPerLine)
	}
}

func TestEncodeNotImplemented(t *testing.T) {
	cs := New()
	cmds := []document.Command{
		document.Image{Width: 8, Height: 8},
		document.Barcode{Symbology: "CODE39", Data: "A1"},
		document.TwoDCode{Symbology: "QR", Data: "https://example.com"},
	}

	for _, cmd := range cmds {
		_, err := document.Encode(cmd, cs, newState())
		if !errors.Is(err, document.ErrNotImplemented) {
			t.Errorf("Encode(%s) error = %v, want ErrNotImplemented", cmd.Name(), err)
			continue
		}
		if !strings.HasPrefix(err.Error(), "Command not implemented: ") {
			t.Errorf("Encode(%s) error = %q", cmd.Name(), err)
		}
	}
}

func TestEncodeUnknownExtended(t *testing.T) {
	_, err := document.Encode(document.Extended{Key: "acme.beep"}, New(), newState())
	if !errors.Is(err, document.ErrUnknownExtendedCommand) {
		t.Errorf("error = %v, want ErrUnknownExtendedCommand", err)
	}
}

func TestEncodeRegisteredExtended(t *testing.T) {
	cs := New(WithExtendedCommand("acme.beep", Handler{
		Encode: func(cmd document.Extended, st *document.State) ([]byte, error) {
			return []byte{0x1B, 0x42, 0x02, 0x02}, nil
		},
	}))
	got := encode(t, cs, document.Extended{Key: "acme.beep"}, newState())
	if !bytes.Equal(got, []byte{0x1B, 0x42, 0x02, 0x02}) {
		t.Errorf("Encode() = % X", got)
	}
}

func BenchmarkEncodeText(b *testing.B) {
	cs := New()
	cmd := document.Text{Text: "Grüße aus Zürich, total 12,50 €"}
	for i := 0; i < b.N; i++ {
		st := newState()
		_, _ = document.Encode(cmd, cs, st)
	}
}
