package escpos

import (
	"fmt"

	"github.com/moffa90/go-escpos/document"
)

// Candidate is the classification of the first byte of printer output.
type Candidate uint8

// Candidates.
const (
	CandidateUnknown Candidate = iota
	CandidateResponse
	CandidateHeader
	CandidateASB
	CandidateRealtime
	CandidateXON
	CandidateXOFF
)

func (c Candidate) String() string {
	switch c {
	case CandidateResponse:
		return "response"
	case CandidateHeader:
		return "header"
	case CandidateASB:
		return "asb"
	case CandidateRealtime:
		return "realtime"
	case CandidateXON:
		return "xon"
	case CandidateXOFF:
		return "xoff"
	default:
		return "unknown"
	}
}

// Bit patterns over bits 0, 1, 4 and 7 of the first byte.
// A byte matches when ((b ^ xor) & mask) == mask.
var candidatePatterns = []struct {
	kind Candidate
	xor  byte
	mask byte
}{
	{CandidateResponse, 0x90, 0x90}, // 0xx0xxxx
	{CandidateHeader, 0x80, 0x91},   // 0xx1xxx1
	{CandidateASB, 0x83, 0x93},      // 0xx1xx00
	{CandidateRealtime, 0x81, 0x93}, // 0xx1xx10
}

func checkBits(v, xor, mask byte) bool {
	return (v^xor)&mask == mask
}

// Classify identifies the kind of message that starts with b.
// XON and XOFF are matched exactly before the bit patterns, which would
// otherwise read them as headers.
func Classify(b byte) Candidate {
	switch b {
	case XON:
		return CandidateXON
	case XOFF:
		return CandidateXOFF
	}
	for _, p := range candidatePatterns {
		if checkBits(b, p.xor, p.mask) {
			return p.kind
		}
	}
	return CandidateUnknown
}

// ParseMessage decodes the message at the start of buf.
//
// Replies carry no length or tag, so response, header and realtime messages
// can only be decoded with the awaited command. Receiving one while nothing
// is awaited returns *document.UnexpectedReplyError.
func (cs *CommandSet) ParseMessage(buf []byte, awaited document.Command) (document.ParseResult, error) {
	if len(buf) == 0 {
		return document.ParseResult{}, nil
	}

	kind := Classify(buf[0])
	switch kind {
	case CandidateXON, CandidateXOFF:
		return document.ParseResult{Remainder: buf[1:]}, nil

	case CandidateASB:
		return DecodeAutoStatusBack(buf), nil

	case CandidateResponse, CandidateHeader, CandidateRealtime:
		if awaited == nil {
			return document.ParseResult{Remainder: buf}, &document.UnexpectedReplyError{
				Kind:     kind.String(),
				Received: clone(buf),
			}
		}
		ext, ok := awaited.(document.Extended)
		if !ok {
			return document.ParseResult{Remainder: buf}, fmt.Errorf("no ESC/POS reply decoder for %s", awaited.Name())
		}
		h, ok := cs.handlers[ext.Key]
		if !ok || h.Decode == nil {
			return document.ParseResult{Remainder: buf}, fmt.Errorf("no ESC/POS reply decoder for %s", ext.Name())
		}
		return h.Decode(buf, ext)

	default:
		return document.ParseResult{
			Messages: []document.Message{receiveException(
				fmt.Sprintf("unrecognized byte 0x%02X", buf[0]), buf[:1])},
			Remainder: buf[1:],
		}, nil
	}
}

// DecodeAutoStatusBack decodes a 4-byte automatic status back frame.
//
// Frame layout:
//
//	byte 0: 0x04 drawer open, 0x08 online, 0x20 cover open, 0x40 paper fed by button
//	byte 1: 0x01 waiting for online recovery, 0x02 feed button, 0x04 recoverable error,
//	        0x08 autocutter error, 0x20 unrecoverable error, 0x40 auto-recoverable error
//	byte 2: 0x03 paper near end, 0x0C paper end
//	byte 3: reserved
//
// Bytes 1-3 must have bits 4 and 7 clear. A frame that fails this check is
// consumed and reported as an error.
func DecodeAutoStatusBack(buf []byte) document.ParseResult {
	if len(buf) < ASBFrameSize {
		return document.ParseResult{Incomplete: true, Remainder: buf}
	}

	frame := buf[:ASBFrameSize]
	rest := buf[ASBFrameSize:]

	for _, b := range frame[1:] {
		if b&0x90 != 0 {
			return document.ParseResult{
				Messages:  []document.Message{receiveException("corrupt auto status back frame", frame)},
				Remainder: rest,
			}
		}
	}

	var (
		statuses document.StatusFlags
		errs     document.ErrorFlags
	)

	if frame[0]&0x04 != 0 {
		statuses |= document.DrawerOpen
	}
	if frame[0]&0x08 != 0 {
		statuses |= document.PrinterOnline
	}
	if frame[0]&0x20 != 0 {
		errs |= document.CoverOpen
	}
	if frame[0]&0x40 != 0 {
		statuses |= document.PaperFedByButton
	}

	if frame[1]&0x01 != 0 {
		statuses |= document.WaitingForOnlineRecovery
	}
	if frame[1]&0x02 != 0 {
		statuses |= document.FeedButtonPressed
	}
	if frame[1]&0x04 != 0 {
		errs |= document.RecoverableError
	}
	if frame[1]&0x08 != 0 {
		errs |= document.CutterError
	}
	if frame[1]&0x20 != 0 {
		errs |= document.UnrecoverableError
	}
	if frame[1]&0x40 != 0 {
		errs |= document.AutoRecoverableError
	}

	if frame[2]&0x03 == 0x03 {
		errs |= document.MediaNearEnd
	}
	if frame[2]&0x0C == 0x0C {
		errs |= document.MediaEmpty
	}

	var msgs []document.Message
	if statuses != 0 {
		msgs = append(msgs, document.StatusMessage{Statuses: statuses})
	}
	if errs != 0 {
		msgs = append(msgs, document.ErrorMessage{Errors: errs})
	}
	return document.ParseResult{Messages: msgs, Remainder: rest}
}

// decodeTransmitPrinterStatus decodes the single byte answering GS r n.
func decodeTransmitPrinterStatus(buf []byte, cmd document.Extended) (document.ParseResult, error) {
	t, ok := cmd.Payload.(StatusType)
	if !ok {
		return document.ParseResult{Remainder: buf}, invalidPayload(cmd)
	}

	b := buf[0]
	res := document.ParseResult{Matched: true, Remainder: buf[1:]}

	switch t {
	case PaperSensorStatus:
		var errs document.ErrorFlags
		if b&0x03 == 0x03 {
			errs |= document.MediaNearEnd
		}
		if b&0x0C == 0x0C {
			errs |= document.MediaEmpty
		}
		if errs != 0 {
			res.Messages = append(res.Messages, document.ErrorMessage{Errors: errs})
		}
	case DrawerKickStatus:
		var statuses document.StatusFlags
		if b&0x01 != 0 {
			statuses |= document.DrawerOpen
		}
		res.Messages = append(res.Messages, document.StatusMessage{Statuses: statuses})
	}

	return res, nil
}

// Printer ID reply headers.
const (
	headerInfoA = 0x3D
	headerInfoB = 0x5F
)

// decodePrinterID decodes the reply to GS I n: a single byte for the basic
// IDs, or header, text and NUL for the information-B IDs.
func decodePrinterID(buf []byte, cmd document.Extended) (document.ParseResult, error) {
	t, ok := cmd.Payload.(PrinterIDType)
	if !ok {
		return document.ParseResult{Remainder: buf}, invalidPayload(cmd)
	}

	if !t.IsString() {
		res := document.ParseResult{Matched: true, Remainder: buf[1:]}
		if t == TypeID {
			b := buf[0]
			res.Messages = []document.Message{document.SettingUpdateMessage{
				HasMultiByteSupport: ptr(b&0x01 != 0),
				HasAutocutter:       ptr(b&0x02 != 0),
				HasDMDConnected:     ptr(b&0x04 != 0),
			}}
		}
		return res, nil
	}

	if buf[0] != headerInfoA && buf[0] != headerInfoB {
		return document.ParseResult{
			Messages:  []document.Message{receiveException(fmt.Sprintf("unexpected %s reply header", t), buf[:1])},
			Remainder: buf[1:],
		}, nil
	}

	end := -1
	for i := 1; i < len(buf); i++ {
		if buf[i] == NUL {
			end = i
			break
		}
	}
	if end < 0 {
		return document.ParseResult{Incomplete: true, Remainder: buf}, nil
	}

	res := document.ParseResult{Matched: true, Remainder: buf[end+1:]}
	if end == 1 {
		// Header and NUL only: the printer has no data for this ID yet.
		return res, nil
	}

	value := string(buf[1:end])
	var update document.SettingUpdateMessage
	switch t {
	case InfoBFirmwareVersion:
		update.Firmware = &value
	case InfoBMakerName:
		update.Manufacturer = &value
	case InfoBModelName:
		update.Model = &value
	case InfoBSerialNo:
		update.SerialNumber = &value
	case InfoBFontLanguage:
		update.FontLanguageSupport = &value
	}
	res.Messages = []document.Message{update}
	return res, nil
}

func receiveException(reason string, received []byte) document.ErrorMessage {
	return document.ErrorMessage{
		Errors: document.MessageReceiveException,
		Exceptions: []error{&document.MessageParsingError{
			Reason:   reason,
			Received: clone(received),
		}},
	}
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func ptr[T any](v T) *T {
	return &v
}
