package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-escpos/document"
	"github.com/moffa90/go-escpos/printer"
)

// statusReport collects what the printer reports during a session.
type statusReport struct {
	mu       sync.Mutex
	statuses document.StatusFlags
	errors   document.ErrorFlags
	problems []string
}

func (r *statusReport) onStatus(msg document.StatusMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses |= msg.Statuses
}

func (r *statusReport) onError(msg document.ErrorMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors |= msg.Errors
	for _, err := range msg.Exceptions {
		r.problems = append(r.problems, err.Error())
	}
}

func (r *statusReport) rows() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := [][]string{
		{"Status", r.statuses.String()},
		{"Errors", r.errors.String()},
	}
	for _, p := range r.problems {
		rows = append(rows, []string{"Problem", p})
	}
	return rows
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Query the printer status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := &statusReport{}
			so := sessionOptions{connect: true, status: report.onStatus, errors: report.onError}
			var pc document.PrinterConfig
			err := ctx.withPrinter(cmd, so, func(c context.Context, p *printer.Printer) (*printer.Result, error) {
				res, err := p.GetStatus(c)
				pc = p.Config()
				return res, err
			})
			if err != nil {
				return err
			}
			rows := append(printerConfigRows(pc), report.rows()...)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	var showFile bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read the printer identity and capabilities",
		Long: "Read the printer identity and capabilities.\n\n" +
			"With --show-file the effective configuration is printed as TOML instead and the printer is not contacted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showFile {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				data, err := cfg.Marshal()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", ctx.configPath, data)
				return nil
			}

			var pc document.PrinterConfig
			so := sessionOptions{connect: true}
			err := ctx.withPrinter(cmd, so, func(c context.Context, p *printer.Printer) (*printer.Result, error) {
				pc = p.Config()
				return nil, nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, printerConfigRows(pc), nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&showFile, "show-file", false, "Print the effective configuration file instead")
	return cmd
}

func printerConfigRows(pc document.PrinterConfig) [][]string {
	codepages := make([]string, len(pc.Codepages))
	for i, cp := range pc.Codepages {
		codepages[i] = string(cp)
	}
	return [][]string{
		{"Manufacturer", pc.Manufacturer},
		{"Model", pc.Model},
		{"Serial number", pc.SerialNumber},
		{"Firmware", pc.Firmware},
		{"Cutter", pc.Cutter.String()},
		{"Characters per line", strconv.Itoa(pc.CharactersPerLine)},
		{"Darkness", strconv.Itoa(pc.DarknessPercent) + "%"},
		{"Orientation", pc.Orientation.String()},
		{"Multi-byte", yesNo(pc.HasMultiByteSupport)},
		{"Display", yesNo(pc.HasDMDConnected)},
		{"Codepages", strings.Join(codepages, ", ")},
	}
}
