// Package codepage maps Unicode text onto the single-byte character tables
// that receipt printers switch between.
//
// Byte tables come from golang.org/x/text/encoding/charmap. The numbering a
// particular printer language uses to select a table is not part of this
// package; see the escpos package for the ESC t mapping.
//
// # Auto-switching
//
// AutoEncode splits a string into fragments so that every character lands in a
// codepage able to print it:
//
//	frags := codepage.AutoEncode("Zürich → Αθήνα", codepage.CP437, codepage.All())
//	for _, f := range frags {
//	    fmt.Printf("%s: % X\n", f.Codepage, f.Bytes)
//	}
//
// Characters that no candidate can represent are replaced with Placeholder.
package codepage
