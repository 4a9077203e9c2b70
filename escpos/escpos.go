package escpos

import (
	"bytes"

	"github.com/moffa90/go-escpos/codepage"
	"github.com/moffa90/go-escpos/document"
)

// Handler encodes and decodes one kind of document.Extended command.
type Handler struct {
	// Encode produces the command bytes.
	Encode func(cmd document.Extended, st *document.State) ([]byte, error)

	// Decode parses the printer's reply to the command. It is only called
	// while the command is awaited, and may be nil for commands that get no reply.
	Decode func(buf []byte, cmd document.Extended) (document.ParseResult, error)
}

// CommandSet implements document.CommandSet for ESC/POS printers.
//
// A CommandSet is immutable after New and safe for concurrent use; all
// per-document state lives in the document.State passed to each call.
type CommandSet struct {
	candidates       []codepage.Codepage
	handlers         map[string]Handler
	statusProbeAtEnd bool
}

var _ document.CommandSet = (*CommandSet)(nil)

// Option configures a CommandSet.
type Option func(*CommandSet)

// WithCandidateCodepages sets the codepages text may be encoded in, in
// priority order. Codepages without an ESC t number are ignored.
//
// Example:
//
//	cs := escpos.New(escpos.WithCandidateCodepages(codepage.CP437, codepage.CP858))
func WithCandidateCodepages(cps ...codepage.Codepage) Option {
	return func(cs *CommandSet) {
		if selectable := selectableCodepages(cps); len(selectable) > 0 {
			cs.candidates = selectable
		}
	}
}

// WithExtendedCommand registers a handler for document.Extended commands with
// the given key, replacing any built-in handler.
func WithExtendedCommand(key string, h Handler) Option {
	return func(cs *CommandSet) {
		cs.handlers[key] = h
	}
}

// WithStatusProbeAtEnd appends a GetStatus probe to every document so the
// caller learns the printer state once the document has been accepted.
func WithStatusProbeAtEnd(enabled bool) Option {
	return func(cs *CommandSet) {
		cs.statusProbeAtEnd = enabled
	}
}

// New creates an ESC/POS command set.
func New(opts ...Option) *CommandSet {
	cs := &CommandSet{
		candidates: selectableCodepages(codepage.All()),
		handlers:   builtinHandlers(),
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// Language returns "escpos".
func (cs *CommandSet) Language() string { return Language }

// Noop returns an empty sequence; ESC/POS needs no keep-alive bytes.
func (cs *CommandSet) Noop() []byte { return []byte{} }

// DocumentStartCommands returns the commands prepended to every document.
func (cs *CommandSet) DocumentStartCommands() []document.Command { return nil }

// DocumentEndCommands returns the commands appended to every document.
func (cs *CommandSet) DocumentEndCommands() []document.Command {
	if cs.statusProbeAtEnd {
		return []document.Command{document.GetStatus{}}
	}
	return nil
}

// Combine concatenates encoded fragments.
func (cs *CommandSet) Combine(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// Expand replaces composite commands with the ESC/POS probes that implement them.
func (cs *CommandSet) Expand(cmd document.Command) []document.Command {
	switch cmd.(type) {
	case document.GetStatus:
		return []document.Command{
			TransmitPrinterStatus(PaperSensorStatus),
			TransmitPrinterStatus(DrawerKickStatus),
		}
	case document.GetConfiguration:
		return []document.Command{
			TransmitPrinterID(TypeID),
			TransmitPrinterID(InfoBMakerName),
			TransmitPrinterID(InfoBModelName),
			TransmitPrinterID(InfoBSerialNo),
			TransmitPrinterID(InfoBFirmwareVersion),
		}
	case document.Identify:
		return []document.Command{
			TransmitPrinterID(TypeID),
		}
	}
	return nil
}

// candidatesFor returns the codepages text may use, restricted to those the
// printer reports support for when that narrows the list to something usable.
func (cs *CommandSet) candidatesFor(st *document.State) []codepage.Codepage {
	if len(st.Config.Codepages) == 0 {
		return cs.candidates
	}
	supported := make(map[codepage.Codepage]struct{}, len(st.Config.Codepages))
	for _, cp := range st.Config.Codepages {
		supported[cp] = struct{}{}
	}
	out := make([]codepage.Codepage, 0, len(cs.candidates))
	for _, cp := range cs.candidates {
		if _, ok := supported[cp]; ok {
			out = append(out, cp)
		}
	}
	if len(out) == 0 {
		return cs.candidates
	}
	return out
}
