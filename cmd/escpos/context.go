package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-escpos/document"
	"github.com/moffa90/go-escpos/escpos"
	"github.com/moffa90/go-escpos/internal/config"
	"github.com/moffa90/go-escpos/internal/devlock"
	"github.com/moffa90/go-escpos/internal/journal"
	"github.com/moffa90/go-escpos/internal/logging"
	"github.com/moffa90/go-escpos/printer"
	"github.com/moffa90/go-escpos/transport"
)

type globalFlags struct {
	config    string
	logLevel  string
	transport string
	device    string
	address   string
	url       string
	baudRate  int
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.flags.config)
		if err != nil {
			c.configErr = err
			return
		}
		c.applyOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) applyOverrides(cfg *config.Config) {
	if c.flags.logLevel != "" {
		cfg.Logging.Level = c.flags.logLevel
	}
	if c.flags.transport != "" {
		cfg.Printer.Transport = strings.ToLower(c.flags.transport)
	}
	if c.flags.device != "" {
		cfg.Printer.Device = c.flags.device
	}
	if c.flags.address != "" {
		cfg.Printer.Address = c.flags.address
		if c.flags.transport == "" {
			cfg.Printer.Transport = config.TransportTCP
		}
	}
	if c.flags.url != "" {
		cfg.Printer.URL = c.flags.url
		if c.flags.transport == "" {
			cfg.Printer.Transport = config.TransportWebSocket
		}
	}
	if c.flags.baudRate > 0 {
		cfg.Printer.BaudRate = c.flags.baudRate
	}
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	})
	return c.logger, c.loggerErr
}

// printerName identifies the configured printer in locks and the journal.
func printerName(cfg *config.Config) string {
	switch cfg.Printer.Transport {
	case config.TransportTCP:
		return cfg.Printer.Address
	case config.TransportWebSocket:
		return cfg.Printer.URL
	default:
		return cfg.Printer.Device
	}
}

func openTransport(ctx context.Context, cfg *config.Config) (printer.Transport, error) {
	switch cfg.Printer.Transport {
	case config.TransportSerial:
		sc := transport.DefaultSerialConfig()
		sc.BaudRate = cfg.Printer.BaudRate
		sc.DataBits = cfg.Printer.DataBits
		sc.Parity = cfg.Printer.Parity
		sc.StopBits = cfg.Printer.StopBits
		return transport.OpenSerial(cfg.Printer.Device, sc)
	case config.TransportTCP:
		return transport.DialTCP(ctx, cfg.Printer.Address)
	case config.TransportWebSocket:
		return transport.DialWebSocket(ctx, cfg.Printer.URL, nil)
	case config.TransportUSBLP:
		return transport.OpenDevice(cfg.Printer.Device)
	default:
		return nil, fmt.Errorf("unsupported transport %q", cfg.Printer.Transport)
	}
}

// commandSet builds the ESC/POS command set from the document settings.
func commandSet(cfg *config.Config) *escpos.CommandSet {
	opts := []escpos.Option{escpos.WithStatusProbeAtEnd(cfg.Document.StatusProbeAtEnd)}
	if cps := cfg.CodepageList(); len(cps) > 0 {
		opts = append(opts, escpos.WithCandidateCodepages(cps...))
	}
	return escpos.New(opts...)
}

// basePrinterConfig is the configuration assumed before the printer reports its own.
func basePrinterConfig(cfg *config.Config) document.PrinterConfig {
	pc := document.DefaultPrinterConfig()
	if cfg.Document.CharactersPerLine > 0 {
		pc.CharactersPerLine = cfg.Document.CharactersPerLine
	}
	if cps := cfg.CodepageList(); len(cps) > 0 {
		pc.Codepages = cps
	}
	return pc
}

// sessionOptions configures a printing session.
type sessionOptions struct {
	// connect reads the printer configuration before running.
	connect bool

	status printer.StatusCallback
	errors printer.ErrorCallback
}

// withPrinter locks the configured printer, opens a session on it and runs fn.
// The session is recorded in the journal when enabled.
func (c *commandContext) withPrinter(cmd *cobra.Command, so sessionOptions, fn func(ctx context.Context, p *printer.Printer) (*printer.Result, error)) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	name := printerName(cfg)
	lock, err := devlock.Acquire(cfg.Lock.Dir, name)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release device lock", "path", lock.Path(), "error", err)
		}
	}()

	t, err := openTransport(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open printer %s: %w", name, err)
	}

	opts := []printer.Option{
		printer.WithLogger(logger),
		printer.WithCommandSet(commandSet(cfg)),
		printer.WithSendTimeout(cfg.SendTimeout()),
		printer.WithResponseTimeout(cfg.ResponseTimeout()),
		printer.WithPrinterConfig(basePrinterConfig(cfg)),
	}
	if so.status != nil {
		opts = append(opts, printer.WithStatusCallback(so.status))
	}
	errorCallback := so.errors
	if errorCallback == nil {
		errorCallback = func(msg document.ErrorMessage) {
			logger.Warn("printer reported error", "errors", msg.String())
		}
	}
	opts = append(opts, printer.WithErrorCallback(errorCallback))

	started := time.Now()
	var res *printer.Result
	if so.connect {
		var p *printer.Printer
		if p, err = printer.Connect(ctx, t, opts...); err == nil {
			res, err = fn(ctx, p)
			p.Close()
		}
	} else {
		p := printer.New(t, opts...)
		res, err = fn(ctx, p)
		p.Close()
	}

	if cfg.Journal.Enabled {
		c.record(ctx, logger, cfg, journalEntry(cmd.Name(), name, started, res, err))
	}
	return err
}

func journalEntry(command, printerName string, started time.Time, res *printer.Result, err error) journal.Entry {
	entry := journal.Entry{
		Command:   command,
		Printer:   printerName,
		StartedAt: started,
		Duration:  time.Since(started),
	}
	if res != nil {
		entry.DocumentID = res.DocumentID
		entry.Transactions = res.Transactions
		entry.Bytes = res.BytesSent
		entry.Effects = res.Effects.String()
		if res.Duration > 0 {
			entry.Duration = res.Duration
		}
	}
	if err != nil {
		entry.Error = err.Error()
	}
	return entry
}

// record writes entry to the journal. Failures are logged and otherwise ignored.
func (c *commandContext) record(ctx context.Context, logger *slog.Logger, cfg *config.Config, entry journal.Entry) {
	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		logger.Warn("open journal", "path", cfg.Journal.Path, "error", err)
		return
	}
	defer j.Close()

	// A cancelled command still gets its entry.
	if errors.Is(ctx.Err(), context.Canceled) {
		ctx = context.WithoutCancel(ctx)
	}
	if _, err := j.Record(ctx, entry); err != nil {
		logger.Warn("record journal entry", "error", err)
	}
}
