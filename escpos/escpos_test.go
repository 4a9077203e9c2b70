package escpos

import (
	"bytes"
	"errors"
	"testing"

	"github.com/moffa90/go-escpos/codepage"
	"github.com/moffa90/go-escpos/document"
)

func compile(t *testing.T, cs *CommandSet, cmds ...document.Command) *document.CompiledDocument {
	t.Helper()
	doc := document.Document{ID: "test", Commands: cmds}
	compiled, err := document.Transpile(doc, cs, newState())
	if err != nil {
		t.Fatalf("Transpile() error = %v", err)
	}
	return compiled
}

func TestTranspileGetStatus(t *testing.T) {
	compiled := compile(t, New(), document.GetStatus{})

	want := [][]byte{
		{GS, CmdTransmitStatus, byte(PaperSensorStatus)},
		{GS, CmdTransmitStatus, byte(DrawerKickStatus)},
	}
	if len(compiled.Transactions) != len(want) {
		t.Fatalf("got %d transactions, want %d", len(compiled.Transactions), len(want))
	}
	for i, tx := range compiled.Transactions {
		if !bytes.Equal(tx.Data, want[i]) {
			t.Errorf("transaction %d = % X, want % X", i, tx.Data, want[i])
		}
		if len(tx.Awaited) != 1 {
			t.Errorf("transaction %d awaits %d commands, want 1", i, len(tx.Awaited))
		}
		if !tx.Effects.Has(document.WaitsForResponse) {
			t.Errorf("transaction %d effects = %s, want waitsForResponse", i, tx.Effects)
		}
	}
	if compiled.Language != Language {
		t.Errorf("Language = %q, want %q", compiled.Language, Language)
	}
}

func TestTranspileGetConfiguration(t *testing.T) {
	compiled := compile(t, New(), document.GetConfiguration{})

	if len(compiled.Transactions) != 5 {
		t.Fatalf("got %d transactions, want 5", len(compiled.Transactions))
	}
	first := compiled.Transactions[0].Data
	if !bytes.Equal(first, []byte{GS, CmdTransmitPrinterID, byte(TypeID)}) {
		t.Errorf("first transaction = % X, want 1D 49 02", first)
	}
	wantIDs := []PrinterIDType{TypeID, InfoBMakerName, InfoBModelName, InfoBSerialNo, InfoBFirmwareVersion}
	for i, tx := range compiled.Transactions {
		ext, ok := tx.Awaited[0].(document.Extended)
		if !ok {
			t.Fatalf("transaction %d awaits %T, want Extended", i, tx.Awaited[0])
		}
		if ext.Payload != wantIDs[i] {
			t.Errorf("transaction %d awaits %v, want %v", i, ext.Payload, wantIDs[i])
		}
	}
	if compiled.AwaitedCount() != 5 {
		t.Errorf("AwaitedCount() = %d, want 5", compiled.AwaitedCount())
	}
}

func TestTranspileIdentify(t *testing.T) {
	compiled := compile(t, New(), document.Identify{})
	if len(compiled.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(compiled.Transactions))
	}
	if !bytes.Equal(compiled.Transactions[0].Data, []byte{GS, CmdTransmitPrinterID, byte(TypeID)}) {
		t.Errorf("data = % X, want 1D 49 02", compiled.Transactions[0].Data)
	}
}

func TestTranspileStatusProbeAtEnd(t *testing.T) {
	compiled := compile(t, New(WithStatusProbeAtEnd(true)), document.Newline{})

	want := [][]byte{
		{LF, GS, CmdTransmitStatus, byte(PaperSensorStatus)},
		{GS, CmdTransmitStatus, byte(DrawerKickStatus)},
	}
	if len(compiled.Transactions) != len(want) {
		t.Fatalf("got %d transactions, want %d", len(compiled.Transactions), len(want))
	}
	for i, tx := range compiled.Transactions {
		if !bytes.Equal(tx.Data, want[i]) {
			t.Errorf("transaction %d = % X, want % X", i, tx.Data, want[i])
		}
	}
	if !compiled.Transactions[0].Effects.Has(document.FeedsPaper | document.WaitsForResponse) {
		t.Errorf("first transaction effects = %s", compiled.Transactions[0].Effects)
	}
}

func TestTranspileWithoutProbe(t *testing.T) {
	compiled := compile(t, New(), document.Reset{}, document.Newline{})
	if len(compiled.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(compiled.Transactions))
	}
	tx := compiled.Transactions[0]
	if !bytes.Equal(tx.Data, []byte{ESC, CmdInitialize, LF}) {
		t.Errorf("data = % X, want 1B 40 0A", tx.Data)
	}
	if len(tx.Awaited) != 0 {
		t.Errorf("awaited = %d, want 0", len(tx.Awaited))
	}
}

func TestTranspileCollectsErrors(t *testing.T) {
	doc := document.Document{Commands: []document.Command{
		document.Image{},
		document.Newline{},
		document.Extended{Key: "vendor.unknown", Label: "Vendor"},
	}}
	_, err := document.Transpile(doc, New(), newState())

	var terr *document.TranspileError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want TranspileError", err)
	}
	if len(terr.Errors) != 2 {
		t.Errorf("got %d errors, want 2", len(terr.Errors))
	}
	if !errors.Is(err, document.ErrNotImplemented) {
		t.Error("expected ErrNotImplemented in the error chain")
	}
	if !errors.Is(err, document.ErrUnknownExtendedCommand) {
		t.Error("expected ErrUnknownExtendedCommand in the error chain")
	}
}

func TestCustomExtendedCommand(t *testing.T) {
	cs := New(WithExtendedCommand("vendor.beep", Handler{
		Encode: func(cmd document.Extended, st *document.State) ([]byte, error) {
			return []byte{ESC, 0x42, 0x02, 0x01}, nil
		},
	}))
	compiled := compile(t, cs, document.Extended{Key: "vendor.beep", Label: "Beep"})
	if !bytes.Equal(compiled.Transactions[0].Data, []byte{ESC, 0x42, 0x02, 0x01}) {
		t.Errorf("data = % X, want 1B 42 02 01", compiled.Transactions[0].Data)
	}
}

func TestCandidatesFor(t *testing.T) {
	cs := New(WithCandidateCodepages(codepage.CP437, codepage.CP858, codepage.WPC1251))

	tests := []struct {
		name      string
		supported []codepage.Codepage
		want      []codepage.Codepage
	}{
		{
			name: "no printer list",
			want: []codepage.Codepage{codepage.CP437, codepage.CP858, codepage.WPC1251},
		},
		{
			name:      "intersection keeps candidate order",
			supported: []codepage.Codepage{codepage.WPC1251, codepage.CP437},
			want:      []codepage.Codepage{codepage.CP437, codepage.WPC1251},
		},
		{
			name:      "disjoint falls back",
			supported: []codepage.Codepage{codepage.CP866},
			want:      []codepage.Codepage{codepage.CP437, codepage.CP858, codepage.WPC1251},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newState()
			st.Config.Codepages = tt.supported
			got := cs.candidatesFor(st)
			if len(got) != len(tt.want) {
				t.Fatalf("candidatesFor() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("candidatesFor()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCombineAndNoop(t *testing.T) {
	cs := New()
	if got := cs.Combine([]byte{0x01}, nil, []byte{0x02, 0x03}); !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("Combine() = % X, want 01 02 03", got)
	}
	if len(cs.Noop()) != 0 {
		t.Errorf("Noop() = % X, want empty", cs.Noop())
	}
	if cs.DocumentStartCommands() != nil {
		t.Error("DocumentStartCommands() should be empty")
	}
}

func BenchmarkTranspile(b *testing.B) {
	cs := New()
	doc := document.ReadyPrintTestPage()
	for i := 0; i < b.N; i++ {
		_, _ = document.Transpile(doc, cs, document.NewState(document.DefaultPrinterConfig()))
	}
}
