package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-escpos/transport"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch for USB printers being attached or removed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			sigCtx := cmd.Context()
			events, errs, err := transport.WatchUSBPrinters(sigCtx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Watching for USB printers (Ctrl+C to stop)")
			for {
				select {
				case <-sigCtx.Done():
					return nil
				case ev, ok := <-events:
					if !ok {
						return nil
					}
					fmt.Fprintln(out, formatUSBEvent(ev))
				case err, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					logger.Warn("udev monitor error", "error", err)
				}
			}
		},
	}
}

func formatUSBEvent(ev transport.USBEvent) string {
	line := fmt.Sprintf("%-6s %s", ev.Action, ev.Device)
	if ev.Vendor != "" || ev.Model != "" {
		line += fmt.Sprintf("  %s %s", ev.Vendor, ev.Model)
	}
	if ev.Serial != "" {
		line += fmt.Sprintf("  serial %s", ev.Serial)
	}
	return line
}
