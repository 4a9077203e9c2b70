package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/moffa90/go-escpos/document"
	"github.com/moffa90/go-escpos/escpos"
)

// MockTransport simulates a printer. Written data is passed to respond, and
// the chunks it returns are delivered through Receive.
type MockTransport struct {
	mu       sync.Mutex
	sent     [][]byte
	sendErr  error
	respond  func(data []byte) [][]byte
	info     document.DeviceInfo
	incoming chan []byte
	failures chan error
	closed   chan struct{}
	once     sync.Once
}

func NewMockTransport(respond func(data []byte) [][]byte) *MockTransport {
	return &MockTransport{
		respond:  respond,
		incoming: make(chan []byte, 64),
		failures: make(chan error, 1),
		closed:   make(chan struct{}),
	}
}

func (m *MockTransport) Send(ctx context.Context, data []byte) error {
	m.mu.Lock()
	if m.sendErr != nil {
		err := m.sendErr
		m.mu.Unlock()
		return err
	}
	m.sent = append(m.sent, append([]byte(nil), data...))
	respond := m.respond
	m.mu.Unlock()

	if respond != nil {
		for _, chunk := range respond(data) {
			m.incoming <- chunk
		}
	}
	return nil
}

func (m *MockTransport) Receive(ctx context.Context) ([]byte, error) {
	select {
	case data := <-m.incoming:
		return data, nil
	case err := <-m.failures:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.closed:
		return nil, io.EOF
	}
}

func (m *MockTransport) DeviceInfo() document.DeviceInfo { return m.info }

func (m *MockTransport) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}

func (m *MockTransport) Inject(data []byte) { m.incoming <- data }

func (m *MockTransport) Fail(err error) { m.failures <- err }

func (m *MockTransport) SetSendError(err error) {
	m.mu.Lock()
	m.sendErr = err
	m.mu.Unlock()
}

func (m *MockTransport) SetRespond(respond func(data []byte) [][]byte) {
	m.mu.Lock()
	m.respond = respond
	m.mu.Unlock()
}

func (m *MockTransport) Sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.sent...)
}

// epsonReplies answers status and identification requests like a TM-T20II.
type epsonReplies struct {
	paper  byte
	drawer byte
}

func (r epsonReplies) respond(data []byte) [][]byte {
	if len(data) < 3 {
		return nil
	}
	cmd := data[len(data)-3:]
	switch {
	case bytes.Equal(cmd, []byte{0x1D, 0x72, 0x01}):
		return [][]byte{{r.paper}}
	case bytes.Equal(cmd, []byte{0x1D, 0x72, 0x02}):
		return [][]byte{{r.drawer}}
	case bytes.Equal(cmd, []byte{0x1D, 0x49, 0x02}):
		return [][]byte{{0x02}}
	case bytes.Equal(cmd, []byte{0x1D, 0x49, 0x41}):
		return [][]byte{[]byte("_1.00 ESC/POS\x00")}
	case bytes.Equal(cmd, []byte{0x1D, 0x49, 0x42}):
		return [][]byte{[]byte("_EPSON\x00")}
	case bytes.Equal(cmd, []byte{0x1D, 0x49, 0x43}):
		// Split across reads.
		return [][]byte{[]byte("_TM-"), []byte("T20II\x00")}
	case bytes.Equal(cmd, []byte{0x1D, 0x49, 0x44}):
		return [][]byte{[]byte("_X5E1234567\x00")}
	}
	return nil
}

// Mock logger for testing
type MockLogger struct {
	mu        sync.Mutex
	debugMsgs []string
	infoMsgs  []string
	errorMsgs []string
}

func (l *MockLogger) Debug(msg string, kv ...interface{}) {
	l.mu.Lock()
	l.debugMsgs = append(l.debugMsgs, msg)
	l.mu.Unlock()
}

func (l *MockLogger) Info(msg string, kv ...interface{}) {
	l.mu.Lock()
	l.infoMsgs = append(l.infoMsgs, msg)
	l.mu.Unlock()
}

func (l *MockLogger) Error(msg string, kv ...interface{}) {
	l.mu.Lock()
	l.errorMsgs = append(l.errorMsgs, msg)
	l.mu.Unlock()
}

func (l *MockLogger) has(msgs *[]string, want string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range *msgs {
		if m == want {
			return true
		}
	}
	return false
}

// recorder collects callback invocations.
type recorder struct {
	mu       sync.Mutex
	statuses []document.StatusMessage
	errors   []document.ErrorMessage
	settings []document.PrinterConfig
	errCh    chan document.ErrorMessage
}

func newRecorder() *recorder {
	return &recorder{errCh: make(chan document.ErrorMessage, 16)}
}

func (r *recorder) options() []Option {
	return []Option{
		WithStatusCallback(func(m document.StatusMessage) {
			r.mu.Lock()
			r.statuses = append(r.statuses, m)
			r.mu.Unlock()
		}),
		WithErrorCallback(func(m document.ErrorMessage) {
			r.mu.Lock()
			r.errors = append(r.errors, m)
			r.mu.Unlock()
			r.errCh <- m
		}),
		WithSettingsCallback(func(cfg document.PrinterConfig) {
			r.mu.Lock()
			r.settings = append(r.settings, cfg)
			r.mu.Unlock()
		}),
	}
}

func (r *recorder) waitError(t *testing.T) document.ErrorMessage {
	t.Helper()
	select {
	case m := <-r.errCh:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error callback")
		return document.ErrorMessage{}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		options []Option
		check   func(t *testing.T, p *Printer)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, p *Printer) {
				if p.config.SendTimeout != 5*time.Second {
					t.Errorf("SendTimeout = %v, want 5s", p.config.SendTimeout)
				}
				if p.config.ResponseTimeout != 5*time.Second {
					t.Errorf("ResponseTimeout = %v, want 5s", p.config.ResponseTimeout)
				}
				if p.config.Retries != 3 {
					t.Errorf("Retries = %d, want 3", p.config.Retries)
				}
				if p.config.CommandSet.Language() != "escpos" {
					t.Errorf("Language = %q, want escpos", p.config.CommandSet.Language())
				}
			},
		},
		{
			name:    "timeouts",
			options: []Option{WithTimeout(time.Second), WithResponseTimeout(300 * time.Millisecond)},
			check: func(t *testing.T, p *Printer) {
				if p.config.SendTimeout != time.Second {
					t.Errorf("SendTimeout = %v, want 1s", p.config.SendTimeout)
				}
				if p.config.ResponseTimeout != 300*time.Millisecond {
					t.Errorf("ResponseTimeout = %v, want 300ms", p.config.ResponseTimeout)
				}
			},
		},
		{
			name:    "invalid values ignored",
			options: []Option{WithTimeout(0), WithRetries(-1), WithCommandSet(nil)},
			check: func(t *testing.T, p *Printer) {
				if p.config.SendTimeout != 5*time.Second || p.config.Retries != 3 || p.config.CommandSet == nil {
					t.Errorf("config = %+v, want defaults", p.config)
				}
			},
		},
		{
			name: "initial printer config",
			options: []Option{WithPrinterConfig(document.PrinterConfig{
				Model:             "TM-m30",
				CharactersPerLine: 48,
			})},
			check: func(t *testing.T, p *Printer) {
				cfg := p.Config()
				if cfg.CharactersPerLine != 48 || cfg.Model != "TM-m30" {
					t.Errorf("Config() = %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(NewMockTransport(nil), tt.options...)
			defer p.Close()
			tt.check(t, p)
		})
	}
}

func TestNewNilTransportPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil transport")
		}
	}()
	New(nil)
}

func TestNewAppliesDeviceInfo(t *testing.T) {
	mt := NewMockTransport(nil)
	mt.info = document.DeviceInfo{Model: "TM-T88V", SerialNumber: "ABC123"}

	p := New(mt)
	defer p.Close()

	cfg := p.Config()
	if cfg.Model != "TM-T88V" || cfg.SerialNumber != "ABC123" {
		t.Errorf("Config() = %q/%q, want TM-T88V/ABC123", cfg.Model, cfg.SerialNumber)
	}
	if cfg.Manufacturer != document.DefaultManufacturer {
		t.Errorf("Manufacturer = %q, want default", cfg.Manufacturer)
	}
}

func TestConnectRefreshesConfiguration(t *testing.T) {
	rec := newRecorder()
	mt := NewMockTransport(epsonReplies{}.respond)

	p, err := Connect(context.Background(), mt, rec.options()...)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer p.Close()

	cfg := p.Config()
	checks := []struct {
		field string
		got   string
		want  string
	}{
		{"Manufacturer", cfg.Manufacturer, "EPSON"},
		{"Model", cfg.Model, "TM-T20II"},
		{"SerialNumber", cfg.SerialNumber, "X5E1234567"},
		{"Firmware", cfg.Firmware, "1.00 ESC/POS"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if cfg.Cutter != document.CutterMultiple {
		t.Errorf("Cutter = %s, want multiple", cfg.Cutter)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.settings) != 5 {
		t.Errorf("settings callback called %d times, want 5", len(rec.settings))
	}

	if got := len(mt.Sent()); got != 5 {
		t.Errorf("sent %d transactions, want 5", got)
	}
}

func TestConnectFailsAfterRetries(t *testing.T) {
	mt := NewMockTransport(nil)

	_, err := Connect(context.Background(), mt,
		WithResponseTimeout(20*time.Millisecond),
		WithRetries(2),
	)
	if !IsTimeout(err) {
		t.Fatalf("Connect() error = %v, want timeout", err)
	}
	if got := len(mt.Sent()); got != 2 {
		t.Errorf("sent %d transactions, want one per attempt (2)", got)
	}
	select {
	case <-mt.closed:
	default:
		t.Error("transport not closed after failed connect")
	}
}

func TestGetStatus(t *testing.T) {
	rec := newRecorder()
	mt := NewMockTransport(epsonReplies{paper: 0x0C, drawer: 0x01}.respond)
	p := New(mt, rec.options()...)
	defer p.Close()

	res, err := p.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if res.Transactions != 2 || res.BytesSent != 6 {
		t.Errorf("Result = %+v, want 2 transactions and 6 bytes", res)
	}
	if !res.Effects.Has(document.WaitsForResponse) {
		t.Errorf("Effects = %s, want waitsForResponse", res.Effects)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.statuses) != 1 || !rec.statuses[0].Statuses.Has(document.DrawerOpen) {
		t.Errorf("statuses = %v, want drawer open", rec.statuses)
	}
	if len(rec.errors) != 1 || !rec.errors[0].Errors.Has(document.MediaEmpty) {
		t.Errorf("errors = %v, want media empty", rec.errors)
	}
}

func TestAutoStatusBackDoesNotResolveReply(t *testing.T) {
	rec := newRecorder()
	mt := NewMockTransport(func(data []byte) [][]byte {
		switch data[len(data)-1] {
		case 0x01:
			// Unsolicited status frame ahead of the paper sensor reply.
			return [][]byte{{0x18, 0x00, 0x00, 0x00, 0x00}}
		case 0x02:
			return [][]byte{{0x00}}
		}
		return nil
	})
	p := New(mt, rec.options()...)
	defer p.Close()

	if _, err := p.GetStatus(context.Background()); err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.statuses) != 2 {
		t.Fatalf("got %d status messages, want 2", len(rec.statuses))
	}
	if !rec.statuses[0].Statuses.Has(document.PrinterOnline) {
		t.Errorf("first status = %s, want printer online", rec.statuses[0].Statuses)
	}
}

func TestSendDocumentTimeoutClearsPending(t *testing.T) {
	mt := NewMockTransport(nil)
	p := New(mt, WithResponseTimeout(30*time.Millisecond))
	defer p.Close()

	_, err := p.GetStatus(context.Background())
	if !IsTimeout(err) {
		t.Fatalf("GetStatus() error = %v, want TimeoutError", err)
	}

	var terr *TimeoutError
	errors.As(err, &terr)
	if terr.Pending != 1 {
		t.Errorf("Pending = %d, want 1", terr.Pending)
	}
	if terr.Timeout != 30*time.Millisecond {
		t.Errorf("Timeout = %v, want 30ms", terr.Timeout)
	}
	if n := p.pendingCount(); n != 0 {
		t.Errorf("pendingCount() = %d, want 0", n)
	}
}

func TestTimeoutDiscardsPartialReply(t *testing.T) {
	mt := NewMockTransport(func(data []byte) [][]byte {
		switch {
		case bytes.HasSuffix(data, []byte{0x1D, 0x49, 0x42}):
			// Maker name cut off before its NUL terminator.
			return [][]byte{[]byte("_EPS")}
		case bytes.HasSuffix(data, []byte{0x1D, 0x49, 0x02}):
			return [][]byte{{0x00}}
		}
		return nil
	})
	p := New(mt, WithResponseTimeout(200*time.Millisecond))
	defer p.Close()

	before := p.Config()

	doc := document.NewDocument(escpos.TransmitPrinterID(escpos.InfoBMakerName))
	if _, err := p.SendDocument(context.Background(), doc); !IsTimeout(err) {
		t.Fatalf("SendDocument() error = %v, want TimeoutError", err)
	}

	p.mu.Lock()
	leftover := len(p.input)
	p.mu.Unlock()
	if leftover != 0 {
		t.Errorf("input holds %d bytes after timeout, want 0", leftover)
	}

	if _, err := p.SendDocument(context.Background(), document.NewDocument(document.Identify{})); err != nil {
		t.Fatalf("SendDocument(Identify) error = %v", err)
	}

	after := p.Config()
	if after.Cutter != before.Cutter {
		t.Errorf("Cutter = %s, want %s", after.Cutter, before.Cutter)
	}
	if after.HasMultiByteSupport != before.HasMultiByteSupport {
		t.Errorf("HasMultiByteSupport = %v, want %v", after.HasMultiByteSupport, before.HasMultiByteSupport)
	}
	if after.HasDMDConnected != before.HasDMDConnected {
		t.Errorf("HasDMDConnected = %v, want %v", after.HasDMDConnected, before.HasDMDConnected)
	}
	if after.Manufacturer != before.Manufacturer {
		t.Errorf("Manufacturer = %q, want %q", after.Manufacturer, before.Manufacturer)
	}
}

func TestSendDocumentContextCancelled(t *testing.T) {
	p := New(NewMockTransport(nil))
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.GetStatus(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("GetStatus() error = %v, want deadline exceeded", err)
	}
	if n := p.pendingCount(); n != 0 {
		t.Errorf("pendingCount() = %d, want 0", n)
	}
}

func TestSendDocumentTransportError(t *testing.T) {
	mt := NewMockTransport(nil)
	mt.SetSendError(errors.New("broken pipe"))
	p := New(mt)
	defer p.Close()

	_, err := p.FeedMedia(context.Background(), 2)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "send transaction 0") {
		t.Errorf("error = %v, want send transaction context", err)
	}
	if n := p.pendingCount(); n != 0 {
		t.Errorf("pendingCount() = %d, want 0", n)
	}
}

func TestSendDocumentInvalidCommand(t *testing.T) {
	mt := NewMockTransport(nil)
	p := New(mt)
	defer p.Close()

	_, err := p.SendDocument(context.Background(), document.NewDocument(document.Barcode{}))
	if !document.IsValidationError(err) {
		t.Errorf("error = %v, want validation error", err)
	}
	if len(mt.Sent()) != 0 {
		t.Error("nothing should be sent for an invalid document")
	}
}

func TestSendDocumentBytes(t *testing.T) {
	mt := NewMockTransport(nil)
	p := New(mt)
	defer p.Close()

	res, err := p.OpenDrawer(context.Background())
	if err != nil {
		t.Fatalf("OpenDrawer() error = %v", err)
	}

	sent := mt.Sent()
	want := []byte{0x1B, 0x70, 0x00, 0x32, 0x32}
	if len(sent) != 1 || !bytes.Equal(sent[0], want) {
		t.Errorf("sent = % X, want % X", sent, want)
	}
	if res.BytesSent != len(want) {
		t.Errorf("BytesSent = %d, want %d", res.BytesSent, len(want))
	}
}

func TestCloseRejectsSends(t *testing.T) {
	p := New(NewMockTransport(nil))

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if _, err := p.FeedMedia(context.Background(), 1); !errors.Is(err, ErrNotReady) {
		t.Errorf("FeedMedia() after Close error = %v, want ErrNotReady", err)
	}
}

func TestCloseReleasesWaitingSend(t *testing.T) {
	p := New(NewMockTransport(nil), WithResponseTimeout(5*time.Second))

	errCh := make(chan error, 1)
	go func() {
		_, err := p.GetStatus(context.Background())
		errCh <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for p.pendingCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	_ = p.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrNotReady) {
			t.Errorf("GetStatus() error = %v, want ErrNotReady", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send not released by Close")
	}
}

func TestUnexpectedReplyIsReported(t *testing.T) {
	rec := newRecorder()
	mt := NewMockTransport(nil)
	p := New(mt, rec.options()...)
	defer p.Close()

	mt.Inject([]byte{0x00, 0x5F, 0x41, 0x00})

	msg := rec.waitError(t)
	if !msg.Errors.Has(document.MessageReceiveException) {
		t.Errorf("Errors = %s, want receive exception", msg.Errors)
	}
	var uerr *document.UnexpectedReplyError
	if len(msg.Exceptions) != 1 || !errors.As(msg.Exceptions[0], &uerr) {
		t.Fatalf("Exceptions = %v, want UnexpectedReplyError", msg.Exceptions)
	}
	if !bytes.Equal(uerr.Received, []byte{0x00, 0x5F, 0x41, 0x00}) {
		t.Errorf("Received = % X", uerr.Received)
	}

	// The dropped input must not disturb the next transaction.
	mt.SetRespond(epsonReplies{}.respond)
	if _, err := p.GetStatus(context.Background()); err != nil {
		t.Errorf("GetStatus() after unexpected reply error = %v", err)
	}
}

func TestReceiveFailureTakesSessionDown(t *testing.T) {
	rec := newRecorder()
	logger := &MockLogger{}
	mt := NewMockTransport(nil)
	p := New(mt, append(rec.options(), WithLogger(logger))...)
	defer p.Close()

	mt.Fail(errors.New("device unplugged"))
	msg := rec.waitError(t)
	if len(msg.Exceptions) != 1 || !strings.Contains(msg.Exceptions[0].Error(), "device unplugged") {
		t.Errorf("Exceptions = %v", msg.Exceptions)
	}

	if _, err := p.FeedMedia(context.Background(), 1); !errors.Is(err, ErrNotReady) {
		t.Errorf("FeedMedia() error = %v, want ErrNotReady", err)
	}
	if !logger.has(&logger.errorMsgs, "receive failed") {
		t.Error("expected receive failure to be logged")
	}
}

func TestLogging(t *testing.T) {
	logger := &MockLogger{}
	p := New(NewMockTransport(nil), WithLogger(logger))
	defer p.Close()

	if _, err := p.PrintTestPage(context.Background()); err != nil {
		t.Fatalf("PrintTestPage() error = %v", err)
	}
	if !logger.has(&logger.debugMsgs, "sending document") {
		t.Error("expected debug log for sending document")
	}
	if !logger.has(&logger.infoMsgs, "document sent") {
		t.Error("expected info log for document sent")
	}
}

func TestTimeoutError(t *testing.T) {
	err := error(&TimeoutError{Operation: "await reply to TransmitPrinterStatus", Pending: 1, Timeout: time.Second})
	want := "await reply to TransmitPrinterStatus: timed out after 1s with 1 replies pending"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !IsTimeout(fmt.Errorf("get status: %w", err)) {
		t.Error("IsTimeout() = false for wrapped error")
	}
	if IsTimeout(ErrNotReady) {
		t.Error("IsTimeout(ErrNotReady) = true")
	}
}
