package escpos

import "github.com/moffa90/go-escpos/codepage"

// codeTables maps codepages to their ESC t table number on Epson-compatible printers.
var codeTables = map[codepage.Codepage]byte{
	codepage.CP437:      0,
	codepage.CP850:      2,
	codepage.CP860:      3,
	codepage.CP863:      4,
	codepage.CP865:      5,
	codepage.WPC1252:    16,
	codepage.CP866:      17,
	codepage.CP852:      18,
	codepage.CP858:      19,
	codepage.CP855:      34,
	codepage.CP862:      36,
	codepage.ISO8859_7:  15,
	codepage.ISO8859_2:  39,
	codepage.ISO8859_15: 40,
	codepage.WPC1250:    45,
	codepage.WPC1251:    46,
	codepage.WPC1253:    47,
	codepage.WPC1254:    48,
	codepage.WPC1255:    49,
	codepage.WPC1256:    50,
	codepage.WPC1257:    51,
	codepage.WPC1258:    52,
}

// CodeTable returns the ESC t number for cp.
// Codepages the printer cannot select fall back to CP437.
func CodeTable(cp codepage.Codepage) (byte, bool) {
	n, ok := codeTables[cp]
	if !ok {
		return codeTables[codepage.CP437], false
	}
	return n, true
}

// selectableCodepages returns the candidates that have both a byte table and an
// ESC t number, keeping their order.
func selectableCodepages(candidates []codepage.Codepage) []codepage.Codepage {
	out := make([]codepage.Codepage, 0, len(candidates))
	for _, cp := range candidates {
		if _, ok := codeTables[cp]; ok && codepage.Supported(cp) {
			out = append(out, cp)
		}
	}
	return out
}
