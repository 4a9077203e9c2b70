// Command escpos talks to ESC/POS receipt printers.
//
// It prints text files, runs the printer's built-in pages, opens the cash
// drawer, reports status and identity, compiles documents offline for
// inspection, watches for USB printers and keeps a journal of sent
// documents. Connection settings come from ~/.config/escpos/config.toml and
// can be overridden with flags.
package main
