// Package printer runs a session with a receipt printer over any byte transport.
//
// # Overview
//
// A Printer compiles documents with a command set (ESC/POS by default),
// writes them transaction by transaction and waits for the replies each
// transaction expects. Printer output is read continuously on a background
// goroutine: replies resolve the waiting transaction, status and error
// messages go to callbacks, and identification replies update the
// printer configuration used for the next document.
//
// # Basic Usage
//
//	t, err := transport.DialTCP(ctx, "192.168.1.50:9100")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, err := printer.Connect(ctx, t)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	doc := document.NewDocument(
//	    document.Text{Text: "Hello, world"},
//	    document.Newline{},
//	    document.NewCut(document.CutPartial),
//	)
//	if _, err := p.SendDocument(ctx, doc); err != nil {
//	    log.Fatal(err)
//	}
//
// # Callbacks
//
//	p := printer.New(t,
//	    printer.WithStatusCallback(func(m document.StatusMessage) {
//	        fmt.Println("status:", m.Statuses)
//	    }),
//	    printer.WithErrorCallback(func(m document.ErrorMessage) {
//	        fmt.Println("error:", m)
//	    }),
//	)
//
// Callbacks run on the receive goroutine. They are invoked before the
// transaction that caused them is released, so a sender observes every
// message produced by its replies once SendDocument returns.
//
// # Error Handling
//
//   - ErrNotReady: the session was closed or its transport failed
//   - TimeoutError: the printer did not answer within the response timeout
//   - document.TranspileError: the document contains commands that cannot be encoded
//
// A transaction that times out leaves no pending replies behind. A reply
// arriving later is reported through the error callback and discarded.
package printer
