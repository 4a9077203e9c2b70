package printer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/moffa90/go-escpos/document"
)

// Printer is a session with one connected printer. It sends compiled
// documents, waits for the replies they expect and keeps the printer
// configuration up to date from what the printer reports.
//
// Printer is safe for concurrent use. Documents are sent one at a time.
type Printer struct {
	transport Transport
	config    Config

	// sendMu keeps one document in flight.
	sendMu sync.Mutex

	mu            sync.Mutex
	printerConfig document.PrinterConfig
	pending       []*pendingReply
	input         []byte

	down       chan struct{}
	downOnce   sync.Once
	closeOnce  sync.Once
	stopReader context.CancelFunc
}

// pendingReply is a command waiting for its reply.
type pendingReply struct {
	cmd      document.Command
	resolved bool
	done     chan struct{}
}

// Result describes a sent document.
type Result struct {
	DocumentID   string
	Transactions int
	BytesSent    int
	Effects      document.Effects
	Duration     time.Duration
}

// New creates a session on t and starts reading printer output.
//
// Example:
//
//	t, _ := transport.DialTCP(ctx, "192.168.1.50:9100")
//	p := printer.New(t,
//	    printer.WithLogger(slog.Default()),
//	    printer.WithResponseTimeout(2*time.Second),
//	)
//	defer p.Close()
func New(t Transport, opts ...Option) *Printer {
	if t == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Printer{
		transport:     t,
		config:        cfg,
		printerConfig: cfg.PrinterConfig.Clone(),
		down:          make(chan struct{}),
	}
	p.printerConfig.UpdateFromDeviceInfo(t.DeviceInfo())

	ctx, cancel := context.WithCancel(context.Background())
	p.stopReader = cancel
	go p.receiveLoop(ctx)

	return p
}

// Connect creates a session on t and reads the printer configuration,
// making up to Retries attempts. The session is closed if every attempt fails.
//
// Example:
//
//	p, err := printer.Connect(ctx, t, printer.WithRetries(5))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(p.Config().Model)
func Connect(ctx context.Context, t Transport, opts ...Option) (*Printer, error) {
	p := New(t, opts...)

	attempts := p.config.Retries
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = p.RefreshConfiguration(ctx); err == nil {
			return p, nil
		}
		p.logError("configuration refresh failed", "attempt", attempt, "error", err)
		if ctx.Err() != nil || errors.Is(err, ErrNotReady) {
			break
		}
	}

	_ = p.Close()
	return nil, fmt.Errorf("refresh configuration: %w", err)
}

// Config returns a copy of the current printer configuration.
func (p *Printer) Config() document.PrinterConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printerConfig.Clone()
}

// SendDocument compiles doc against the current configuration and sends it.
//
// Example:
//
//	doc := document.NewDocument(
//	    document.Text{Text: "Hello"},
//	    document.Newline{},
//	    document.NewCut(document.CutPartial),
//	)
//	res, err := p.SendDocument(ctx, doc)
func (p *Printer) SendDocument(ctx context.Context, doc document.Document) (*Result, error) {
	st := document.NewState(p.Config())
	compiled, err := document.Transpile(doc, p.config.CommandSet, st)
	if err != nil {
		return nil, err
	}
	return p.SendCompiledDocument(ctx, compiled)
}

// SendCompiledDocument sends each transaction of compiled and waits for the
// replies it expects before sending the next one.
func (p *Printer) SendCompiledDocument(ctx context.Context, compiled *document.CompiledDocument) (*Result, error) {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	if !p.ready() {
		return nil, ErrNotReady
	}

	start := time.Now()
	res := &Result{
		DocumentID: compiled.DocumentID,
		Effects:    compiled.Effects,
	}

	p.logDebug("sending document",
		"document_id", compiled.DocumentID,
		"transactions", len(compiled.Transactions),
		"bytes", compiled.Size(),
		"effects", compiled.Effects.String(),
	)

	for i, tx := range compiled.Transactions {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("cancelled: %w", err)
		}
		if err := p.sendTransaction(ctx, i, tx); err != nil {
			p.logError("document failed",
				"document_id", compiled.DocumentID,
				"transaction", i,
				"error", err,
			)
			return res, err
		}
		res.Transactions++
		res.BytesSent += len(tx.Data)
	}

	res.Duration = time.Since(start)
	p.logInfo("document sent",
		"document_id", compiled.DocumentID,
		"transactions", res.Transactions,
		"bytes", res.BytesSent,
		"elapsed", res.Duration.String(),
	)

	return res, nil
}

// sendTransaction writes one transaction and waits for its replies.
// Pending replies are cleared on every path. A failed transaction also
// discards buffered input, which can only be a partial reply to it.
func (p *Printer) sendTransaction(ctx context.Context, i int, tx document.Transaction) (err error) {
	replies, err := p.register(tx.Awaited)
	if err != nil {
		return err
	}
	defer func() { p.clearPending(err != nil) }()

	sendCtx, cancel := context.WithTimeout(ctx, p.config.SendTimeout)
	err = p.transport.Send(sendCtx, tx.Data)
	cancel()
	if err != nil {
		return fmt.Errorf("send transaction %d: %w", i, err)
	}

	return p.await(ctx, replies)
}

func (p *Printer) register(cmds []document.Command) ([]*pendingReply, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready() {
		return nil, ErrNotReady
	}

	replies := make([]*pendingReply, len(cmds))
	for i, cmd := range cmds {
		replies[i] = &pendingReply{cmd: cmd, done: make(chan struct{})}
	}
	p.pending = append(p.pending, replies...)
	return replies, nil
}

func (p *Printer) await(ctx context.Context, replies []*pendingReply) error {
	if len(replies) == 0 {
		return nil
	}

	timer := time.NewTimer(p.config.ResponseTimeout)
	defer timer.Stop()

	for _, r := range replies {
		select {
		case <-r.done:
		case <-timer.C:
			return &TimeoutError{
				Operation: "await reply to " + r.cmd.Name(),
				Pending:   p.unresolved(replies),
				Timeout:   p.config.ResponseTimeout,
			}
		case <-ctx.Done():
			return ctx.Err()
		case <-p.down:
			return ErrNotReady
		}
	}
	return nil
}

func (p *Printer) unresolved(replies []*pendingReply) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, r := range replies {
		if !r.resolved {
			n++
		}
	}
	return n
}

func (p *Printer) clearPending(discardInput bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending = nil
	if discardInput && len(p.input) > 0 {
		p.logDebug("discarding incomplete reply", "bytes", fmt.Sprintf("% X", p.input))
		p.input = nil
	}
}

func (p *Printer) pendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// firstUnresolved returns the command whose reply is expected next.
// The caller must hold p.mu.
func (p *Printer) firstUnresolved() *pendingReply {
	for _, r := range p.pending {
		if !r.resolved {
			return r
		}
	}
	return nil
}

func (p *Printer) ready() bool {
	select {
	case <-p.down:
		return false
	default:
		return true
	}
}

func (p *Printer) markDown() {
	p.downOnce.Do(func() {
		close(p.down)
	})
}

// Close stops the session and closes the transport. Waiting sends return
// ErrNotReady. Close is idempotent.
func (p *Printer) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.markDown()
		p.stopReader()
		err = p.transport.Close()
		p.logDebug("session closed")
	})
	return err
}

// RefreshConfiguration queries the printer identity and capabilities.
// The configuration is updated as the replies arrive.
func (p *Printer) RefreshConfiguration(ctx context.Context) error {
	_, err := p.SendDocument(ctx, document.ReadyGetConfiguration())
	return err
}

// GetStatus probes the printer. Results are delivered to the status and error callbacks.
func (p *Printer) GetStatus(ctx context.Context) (*Result, error) {
	return p.SendDocument(ctx, document.ReadyGetStatus())
}

// PrintTestPage prints a short page exercising text, rules and the cutter.
func (p *Printer) PrintTestPage(ctx context.Context) (*Result, error) {
	return p.SendDocument(ctx, document.ReadyPrintTestPage())
}

// PrintConfiguration prints the printer's own settings page.
func (p *Printer) PrintConfiguration(ctx context.Context) (*Result, error) {
	return p.SendDocument(ctx, document.ReadyPrintConfiguration())
}

// FeedMedia feeds lines of blank paper.
func (p *Printer) FeedMedia(ctx context.Context, lines int) (*Result, error) {
	return p.SendDocument(ctx, document.ReadyFeedMedia(lines))
}

// OpenDrawer pulses the cash drawer kick pin.
func (p *Printer) OpenDrawer(ctx context.Context) (*Result, error) {
	return p.SendDocument(ctx, document.ReadyOpenDrawer())
}

// logDebug logs a debug message if a logger is configured.
func (p *Printer) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (p *Printer) logInfo(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (p *Printer) logError(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Error(msg, keysAndValues...)
	}
}
