package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-escpos/document"
	"github.com/moffa90/go-escpos/printer"
)

// textOptions controls how plain text becomes a document.
type textOptions struct {
	align  string
	bold   bool
	width  uint8
	height uint8
	cut    string
	drawer bool
	feed   int
}

func (o *textOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.align, "align", "left", "Text alignment (left, center, right)")
	flags.BoolVar(&o.bold, "bold", false, "Print in bold")
	flags.Uint8Var(&o.width, "width", 1, "Character width multiplier (1-8)")
	flags.Uint8Var(&o.height, "height", 1, "Character height multiplier (1-8)")
	flags.StringVar(&o.cut, "cut", "partial", "Cut after printing (partial, full, none)")
	flags.BoolVar(&o.drawer, "drawer", false, "Open the cash drawer after printing")
	flags.IntVar(&o.feed, "feed", 0, "Blank lines to feed before cutting")
}

// buildTextDocument turns each line of r into text followed by a newline.
func buildTextDocument(r io.Reader, opts textOptions) (document.Document, error) {
	align, err := document.ParseAlignment(opts.align)
	if err != nil {
		return document.Document{}, err
	}
	if opts.width < document.MinCharacterScale || opts.width > document.MaxCharacterScale {
		return document.Document{}, fmt.Errorf("width must be between %d and %d", document.MinCharacterScale, document.MaxCharacterScale)
	}
	if opts.height < document.MinCharacterScale || opts.height > document.MaxCharacterScale {
		return document.Document{}, fmt.Errorf("height must be between %d and %d", document.MinCharacterScale, document.MaxCharacterScale)
	}

	format := document.TextFormat{
		ResetToDefault: true,
		Alignment:      align,
		Width:          opts.width,
		Height:         opts.height,
	}
	if opts.bold {
		format.Bold = document.On
	}

	cmds := []document.Command{
		document.Reset{},
		document.TextFormatting{Format: format},
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line != "" {
			cmds = append(cmds, document.Text{Text: line})
		}
		cmds = append(cmds, document.Newline{})
	}
	if err := scanner.Err(); err != nil {
		return document.Document{}, fmt.Errorf("read text: %w", err)
	}

	for i := 0; i < opts.feed; i++ {
		cmds = append(cmds, document.Newline{})
	}

	switch strings.ToLower(opts.cut) {
	case "", "none":
	case "partial":
		cmds = append(cmds, document.NewCut(document.CutPartial))
	case "full", "complete":
		cmds = append(cmds, document.NewCut(document.CutComplete))
	default:
		return document.Document{}, fmt.Errorf("unknown cut %q", opts.cut)
	}

	if opts.drawer {
		cmds = append(cmds, document.NewPulseOutput(document.Drawer1, document.DefaultPulseMS, document.DefaultPulseMS))
	}

	return document.NewDocument(cmds...), nil
}

// openInput opens the named file, or stdin for "-" or no name.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func newPrintCommand(ctx *commandContext) *cobra.Command {
	var opts textOptions
	cmd := &cobra.Command{
		Use:   "print [file|-]",
		Short: "Print a text file",
		Long:  "Print each line of a UTF-8 text file. Characters are encoded into the printer's codepages automatically.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			doc, err := buildTextDocument(in, opts)
			in.Close()
			if err != nil {
				return err
			}
			return ctx.sendDocument(cmd, func(c context.Context, p *printer.Printer) (*printer.Result, error) {
				return p.SendDocument(c, doc)
			})
		},
	}
	opts.register(cmd)
	return cmd
}

func newTestPrintCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-print",
		Short: "Print a test page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.sendDocument(cmd, func(c context.Context, p *printer.Printer) (*printer.Result, error) {
				return p.PrintTestPage(c)
			})
		},
	}
}

func newPrintConfigCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "print-config",
		Short: "Print the printer's settings page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.sendDocument(cmd, func(c context.Context, p *printer.Printer) (*printer.Result, error) {
				return p.PrintConfiguration(c)
			})
		},
	}
}

func newFeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "feed [lines]",
		Short: "Feed blank paper",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines := document.DefaultFeedLines
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid line count %q", args[0])
				}
				lines = n
			}
			return ctx.sendDocument(cmd, func(c context.Context, p *printer.Printer) (*printer.Result, error) {
				return p.FeedMedia(c, lines)
			})
		},
	}
}

func newDrawerCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "drawer",
		Short: "Open the cash drawer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.sendDocument(cmd, func(c context.Context, p *printer.Printer) (*printer.Result, error) {
				return p.OpenDrawer(c)
			})
		},
	}
}

// sendDocument runs send in a printer session and reports the result.
func (c *commandContext) sendDocument(cmd *cobra.Command, send func(context.Context, *printer.Printer) (*printer.Result, error)) error {
	var res *printer.Result
	err := c.withPrinter(cmd, sessionOptions{}, func(ctx context.Context, p *printer.Printer) (*printer.Result, error) {
		var err error
		res, err = send(ctx, p)
		return res, err
	})
	if err != nil {
		return err
	}
	if res != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Sent %d bytes in %d transaction(s) (%s)\n", res.BytesSent, res.Transactions, res.Duration.Round(time.Millisecond))
	}
	return nil
}
