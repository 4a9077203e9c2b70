// Package escpos implements the ESC/POS printer language used by Epson and
// compatible receipt printers.
//
// # Encoding
//
// CommandSet implements document.CommandSet. It encodes each document command
// into ESC/POS bytes, expands composite commands into printer probes, and
// decodes the printer's replies.
//
//	cs := escpos.New()
//	st := document.NewState(document.DefaultPrinterConfig())
//	compiled, err := document.Transpile(doc, cs, st)
//
// Text is split into codepage runs automatically. Each run is prefixed with
// ESC t n, using the Epson table numbers (see CodeTable).
//
// # Extended Commands
//
// Printer-specific commands without a generic equivalent are document.Extended
// values resolved by key. The built-in ones are created with
// TransmitPrinterStatus, TransmitPrinterID and SetAutoStatusBack. Further
// commands can be registered with WithExtendedCommand:
//
//	cs := escpos.New(escpos.WithExtendedCommand("acme.beep", escpos.Handler{
//	    Encode: func(cmd document.Extended, st *document.State) ([]byte, error) {
//	        return []byte{0x1B, 0x42, 0x02, 0x02}, nil
//	    },
//	}))
//
// # Reading Replies
//
// Printer output is a stream of unframed messages. Classify identifies a
// message from its first byte:
//
//	0xx0xxxx  response to GS r / GS I
//	0xx1xxx1  header of a NUL-terminated reply
//	0xx1xx00  automatic status back (4 bytes)
//	0xx1xx10  real-time status
//	0x11/0x13 XON/XOFF flow control
//
// Responses, headers and real-time replies carry no length, so ParseMessage
// needs the command awaiting a reply to decode them.
package escpos
