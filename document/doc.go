// Package document defines printer-independent print commands and compiles
// them into protocol transactions.
//
// # Commands
//
// A Document is an ordered list of Command values. The set of command kinds
// is closed; each kind is a small value type such as Text, Cut or GetStatus.
// Protocol-specific instructions use Extended, which a CommandSet resolves
// by key.
//
//	doc := document.NewDocument(
//	    document.TextFormatting{Format: document.TextFormat{Bold: document.On}},
//	    document.Text{Text: "Total: 12,50 €"},
//	    document.Newline{},
//	    document.NewCut(document.CutPartial),
//	)
//
// # Transpiling
//
// Transpile walks a document with a CommandSet (see package escpos), tracking
// the printer's state in a State, and splits the output into transactions.
// A transaction ends after every command that waits for a reply:
//
//	st := document.NewState(document.DefaultPrinterConfig())
//	compiled, err := document.Transpile(doc, escpos.New(), st)
//	if err != nil {
//	    var terr *document.TranspileError
//	    if errors.As(err, &terr) {
//	        for _, e := range terr.Errors {
//	            log.Println(e)
//	        }
//	    }
//	}
//
// # Messages
//
// Printers answer with StatusMessage, ErrorMessage and SettingUpdateMessage
// values. Setting updates are applied to a PrinterConfig with Update.
package document
