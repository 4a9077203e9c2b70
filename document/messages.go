package document

import (
	"fmt"
	"strings"

	"github.com/moffa90/go-escpos/codepage"
)

// Message is a decoded unit of printer output.
type Message interface {
	isMessage()
}

// StatusFlags is a set of non-error printer conditions.
type StatusFlags uint16

// Status flags.
const (
	PrinterOnline StatusFlags = 1 << iota
	DrawerOpen
	PaperFedByButton
	WaitingForOnlineRecovery
	FeedButtonPressed
)

var statusNames = []struct {
	flag StatusFlags
	name string
}{
	{PrinterOnline, "printer online"},
	{DrawerOpen, "drawer open"},
	{PaperFedByButton, "paper fed by button"},
	{WaitingForOnlineRecovery, "waiting for online recovery"},
	{FeedButtonPressed, "feed button pressed"},
}

// Has reports whether every flag in other is set.
func (s StatusFlags) Has(other StatusFlags) bool { return s&other == other }

// List returns the flag names.
func (s StatusFlags) List() []string {
	var names []string
	for _, n := range statusNames {
		if s&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

func (s StatusFlags) String() string {
	if s == 0 {
		return "none"
	}
	return strings.Join(s.List(), ", ")
}

// ErrorFlags is a set of printer error conditions.
type ErrorFlags uint16

// Error flags.
const (
	CoverOpen ErrorFlags = 1 << iota
	MediaNearEnd
	MediaEmpty
	CutterError
	RecoverableError
	UnrecoverableError
	AutoRecoverableError
	MessageReceiveException
)

var errorNames = []struct {
	flag ErrorFlags
	name string
}{
	{CoverOpen, "cover open"},
	{MediaNearEnd, "media near end"},
	{MediaEmpty, "media empty"},
	{CutterError, "cutter error"},
	{RecoverableError, "recoverable error"},
	{UnrecoverableError, "unrecoverable error"},
	{AutoRecoverableError, "auto-recoverable error"},
	{MessageReceiveException, "message receive exception"},
}

// Has reports whether every flag in other is set.
func (e ErrorFlags) Has(other ErrorFlags) bool { return e&other == other }

// List returns the flag names.
func (e ErrorFlags) List() []string {
	var names []string
	for _, n := range errorNames {
		if e&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

func (e ErrorFlags) String() string {
	if e == 0 {
		return "none"
	}
	return strings.Join(e.List(), ", ")
}

// StatusMessage reports printer conditions.
type StatusMessage struct {
	Statuses StatusFlags
}

// ErrorMessage reports printer errors, or problems decoding printer output.
type ErrorMessage struct {
	Errors     ErrorFlags
	Exceptions []error
}

func (m ErrorMessage) String() string {
	if len(m.Exceptions) == 0 {
		return m.Errors.String()
	}
	parts := make([]string, len(m.Exceptions))
	for i, err := range m.Exceptions {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%s: %s", m.Errors, strings.Join(parts, "; "))
}

// SettingUpdateMessage carries configuration values read from the printer.
// Nil fields were not reported.
type SettingUpdateMessage struct {
	SerialNumber        *string
	Model               *string
	Manufacturer        *string
	Firmware            *string
	FontLanguageSupport *string
	HasMultiByteSupport *bool
	HasAutocutter       *bool
	HasDMDConnected     *bool
	Cutter              *CutterType
	CharactersPerLine   *int
	DarknessPercent     *int
	Orientation         *Orientation
	Codepages           []codepage.Codepage
}

func (StatusMessage) isMessage()        {}
func (ErrorMessage) isMessage()         {}
func (SettingUpdateMessage) isMessage() {}

// ParseResult is the outcome of decoding the leading message of a buffer.
type ParseResult struct {
	Messages []Message

	// Matched is set when the message is the reply to the awaited command.
	Matched bool

	// Incomplete is set when more bytes are needed; nothing was consumed.
	Incomplete bool

	// Remainder is the unconsumed tail of the buffer.
	Remainder []byte
}
