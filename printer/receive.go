package printer

import (
	"context"
	"fmt"

	"github.com/moffa90/go-escpos/document"
)

// receiveLoop feeds printer output to the parser until the session stops.
// A transport error other than a shutdown takes the session down.
func (p *Printer) receiveLoop(ctx context.Context) {
	for {
		data, err := p.transport.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil || !p.ready() {
				return
			}
			p.logError("receive failed", "error", err)
			p.markDown()
			p.reportError(document.ErrorMessage{
				Errors:     document.MessageReceiveException,
				Exceptions: []error{fmt.Errorf("receive: %w", err)},
			})
			return
		}
		if len(data) > 0 {
			p.handleInput(data)
		}
	}
}

// dispatch collects what one chunk of input produced, so callbacks and
// waiting senders are notified after p.mu is released.
type dispatch struct {
	statuses []document.StatusMessage
	errors   []document.ErrorMessage
	settings *document.PrinterConfig
	resolved []*pendingReply
}

func (p *Printer) handleInput(data []byte) {
	var d dispatch

	p.mu.Lock()
	p.input = append(p.input, data...)
	for len(p.input) > 0 {
		reply := p.firstUnresolved()
		var awaited document.Command
		if reply != nil {
			awaited = reply.cmd
		}

		res, err := p.config.CommandSet.ParseMessage(p.input, awaited)
		if err != nil {
			// The length of a reply nobody asked for is unknown, so
			// nothing after it can be trusted.
			d.errors = append(d.errors, document.ErrorMessage{
				Errors:     document.MessageReceiveException,
				Exceptions: []error{err},
			})
			p.input = nil
			break
		}

		for _, msg := range res.Messages {
			switch m := msg.(type) {
			case document.StatusMessage:
				d.statuses = append(d.statuses, m)
			case document.ErrorMessage:
				d.errors = append(d.errors, m)
			case document.SettingUpdateMessage:
				p.printerConfig.Update(m)
				cfg := p.printerConfig.Clone()
				d.settings = &cfg
			}
		}

		if res.Matched && reply != nil {
			reply.resolved = true
			d.resolved = append(d.resolved, reply)
		}

		if res.Incomplete || len(res.Remainder) >= len(p.input) {
			p.input = res.Remainder
			break
		}
		p.input = res.Remainder
	}
	if len(p.input) == 0 {
		p.input = nil
	}
	p.mu.Unlock()

	p.notify(d)
}

func (p *Printer) notify(d dispatch) {
	for _, m := range d.statuses {
		p.logDebug("printer status", "statuses", m.Statuses.String())
		if p.config.StatusCallback != nil {
			p.config.StatusCallback(m)
		}
	}
	for _, m := range d.errors {
		p.reportError(m)
	}
	if d.settings != nil {
		p.logDebug("printer configuration updated",
			"model", d.settings.Model,
			"manufacturer", d.settings.Manufacturer,
			"serial", d.settings.SerialNumber,
		)
		if p.config.SettingsCallback != nil {
			p.config.SettingsCallback(*d.settings)
		}
	}
	for _, r := range d.resolved {
		close(r.done)
	}
}

func (p *Printer) reportError(m document.ErrorMessage) {
	p.logError("printer error", "errors", m.String())
	if p.config.ErrorCallback != nil {
		p.config.ErrorCallback(m)
	}
}
