package codepage

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Codepage identifies a single-byte character table understood by receipt printers.
type Codepage string

// Supported codepages, listed in the default auto-switch priority order.
const (
	CP437      Codepage = "CP437"
	CP850      Codepage = "CP850"
	CP852      Codepage = "CP852"
	CP855      Codepage = "CP855"
	CP858      Codepage = "CP858"
	CP860      Codepage = "CP860"
	CP862      Codepage = "CP862"
	CP863      Codepage = "CP863"
	CP865      Codepage = "CP865"
	CP866      Codepage = "CP866"
	ISO8859_2  Codepage = "ISO8859-2"
	ISO8859_7  Codepage = "ISO8859-7"
	ISO8859_15 Codepage = "ISO8859-15"
	WPC1250    Codepage = "WPC1250"
	WPC1251    Codepage = "WPC1251"
	WPC1252    Codepage = "WPC1252"
	WPC1253    Codepage = "WPC1253"
	WPC1254    Codepage = "WPC1254"
	WPC1255    Codepage = "WPC1255"
	WPC1256    Codepage = "WPC1256"
	WPC1257    Codepage = "WPC1257"
	WPC1258    Codepage = "WPC1258"
)

// Placeholder is written in place of characters no candidate codepage can represent.
const Placeholder byte = '?'

var tables = map[Codepage]*charmap.Charmap{
	CP437:      charmap.CodePage437,
	CP850:      charmap.CodePage850,
	CP852:      charmap.CodePage852,
	CP855:      charmap.CodePage855,
	CP858:      charmap.CodePage858,
	CP860:      charmap.CodePage860,
	CP862:      charmap.CodePage862,
	CP863:      charmap.CodePage863,
	CP865:      charmap.CodePage865,
	CP866:      charmap.CodePage866,
	ISO8859_2:  charmap.ISO8859_2,
	ISO8859_7:  charmap.ISO8859_7,
	ISO8859_15: charmap.ISO8859_15,
	WPC1250:    charmap.Windows1250,
	WPC1251:    charmap.Windows1251,
	WPC1252:    charmap.Windows1252,
	WPC1253:    charmap.Windows1253,
	WPC1254:    charmap.Windows1254,
	WPC1255:    charmap.Windows1255,
	WPC1256:    charmap.Windows1256,
	WPC1257:    charmap.Windows1257,
	WPC1258:    charmap.Windows1258,
}

var priority = []Codepage{
	CP437, CP850, CP858, CP852, CP860, CP863, CP865, CP855, CP866, CP862,
	WPC1252, WPC1250, WPC1251, WPC1253, WPC1254, WPC1255, WPC1256, WPC1257, WPC1258,
	ISO8859_2, ISO8859_7, ISO8859_15,
}

// All returns every supported codepage in default priority order.
// The returned slice is a copy and may be modified by the caller.
func All() []Codepage {
	out := make([]Codepage, len(priority))
	copy(out, priority)
	return out
}

// Supported reports whether a byte table is available for cp.
func Supported(cp Codepage) bool {
	_, ok := tables[cp]
	return ok
}

// EncodeRune converts r to its byte in cp.
// The second return value is false when cp is unknown or cannot represent r.
func EncodeRune(cp Codepage, r rune) (byte, bool) {
	table, ok := tables[cp]
	if !ok {
		return 0, false
	}
	return table.EncodeRune(r)
}

// Encode converts s to cp, substituting Placeholder for unrepresentable runes.
func Encode(cp Codepage, s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := EncodeRune(cp, r)
		if !ok {
			b = Placeholder
		}
		out = append(out, b)
	}
	return out
}

// Parse resolves a codepage by name, accepting the canonical form case-insensitively.
func Parse(name string) (Codepage, bool) {
	for cp := range tables {
		if strings.EqualFold(string(cp), name) {
			return cp, true
		}
	}
	return "", false
}
