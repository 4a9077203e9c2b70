package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-escpos/document"
	"github.com/moffa90/go-escpos/internal/config"
)

// readyDocuments are the built-in documents compile accepts with --ready.
var readyDocuments = map[string]func() document.Document{
	"status":       document.ReadyGetStatus,
	"config":       document.ReadyGetConfiguration,
	"print-config": document.ReadyPrintConfiguration,
	"test-page":    document.ReadyPrintTestPage,
	"drawer":       document.ReadyOpenDrawer,
	"feed":         func() document.Document { return document.ReadyFeedMedia(document.DefaultFeedLines) },
}

func newCompileCommand(ctx *commandContext) *cobra.Command {
	var (
		opts   textOptions
		ready  string
		output string
	)
	cmd := &cobra.Command{
		Use:   "compile [file|-]",
		Short: "Compile a document without sending it",
		Long: "Compile a text file, or a built-in document selected with --ready, into ESC/POS bytes " +
			"and show the transactions. With --output the bytes are written to a file.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var doc document.Document
			if ready != "" {
				build, ok := readyDocuments[ready]
				if !ok {
					return fmt.Errorf("unknown document %q (available: %s)", ready, readyNames())
				}
				doc = build()
			} else {
				in, err := openInput(cmd, args)
				if err != nil {
					return err
				}
				doc, err = buildTextDocument(in, opts)
				in.Close()
				if err != nil {
					return err
				}
			}

			compiled, err := compileDocument(cfg, doc)
			if err != nil {
				return err
			}

			if output != "" {
				return writeCompiled(cmd.OutOrStdout(), output, compiled)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Bytes", "Awaits", "Effects", "Data"},
				transactionRows(compiled),
				[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes, %d awaited, effects %s\n",
				compiled.Language, compiled.Size(), compiled.AwaitedCount(), compiled.Effects)
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&ready, "ready", "", "Compile a built-in document ("+readyNames()+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the compiled bytes to a file (- for stdout)")
	return cmd
}

func readyNames() string {
	return "config, drawer, feed, print-config, status, test-page"
}

func compileDocument(cfg *config.Config, doc document.Document) (*document.CompiledDocument, error) {
	st := document.NewState(basePrinterConfig(cfg))
	return document.Transpile(doc, commandSet(cfg), st)
}

// writeCompiled writes the transaction bytes to path, or to stdout for "-".
func writeCompiled(stdout io.Writer, path string, compiled *document.CompiledDocument) error {
	w := stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	for _, tx := range compiled.Transactions {
		if _, err := w.Write(tx.Data); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

func transactionRows(compiled *document.CompiledDocument) [][]string {
	rows := make([][]string, 0, len(compiled.Transactions))
	for i, tx := range compiled.Transactions {
		awaits := make([]string, len(tx.Awaited))
		for j, cmd := range tx.Awaited {
			awaits[j] = cmd.Name()
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(len(tx.Data)),
			strings.Join(awaits, ", "),
			tx.Effects.String(),
			hexDump(tx.Data, 16),
		})
	}
	return rows
}

// hexDump formats data as space separated hex bytes, perLine bytes per line.
func hexDump(data []byte, perLine int) string {
	if perLine <= 0 {
		perLine = len(data)
	}
	var b strings.Builder
	for i := 0; i < len(data); i += perLine {
		end := i + perLine
		if end > len(data) {
			end = len(data)
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "% X", data[i:end])
	}
	return b.String()
}
