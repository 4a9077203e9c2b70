package codepage

// Fragment is a run of text encoded in a single codepage.
type Fragment struct {
	Codepage Codepage
	Bytes    []byte
}

// AutoEncode splits text into fragments, picking for each character a codepage
// that can represent it while keeping the number of codepage switches low.
//
// The walk starts on current, which may be empty when no codepage has been
// selected yet. For each character:
//   - ASCII stays on the active codepage (or the first candidate if none is active)
//   - otherwise the active codepage is kept when it can represent the character
//   - otherwise candidates are scanned in order for the first one that can
//   - if none can, Placeholder is written on the active codepage
//
// A new fragment starts every time the selected codepage changes.
// Empty text produces no fragments.
func AutoEncode(text string, current Codepage, candidates []Codepage) []Fragment {
	if text == "" {
		return nil
	}

	var (
		fragments []Fragment
		active    = current
	)
	fallback := func() Codepage {
		if active != "" {
			return active
		}
		if len(candidates) > 0 {
			return candidates[0]
		}
		return CP437
	}

	for _, r := range text {
		cp, b := pick(r, active, candidates)
		if cp == "" {
			cp, b = fallback(), Placeholder
		}

		if n := len(fragments); n > 0 && fragments[n-1].Codepage == cp {
			fragments[n-1].Bytes = append(fragments[n-1].Bytes, b)
		} else {
			fragments = append(fragments, Fragment{Codepage: cp, Bytes: []byte{b}})
		}
		active = cp
	}

	return fragments
}

// pick returns the codepage and byte to use for r, or an empty codepage when
// neither the active codepage nor any candidate can represent it.
func pick(r rune, active Codepage, candidates []Codepage) (Codepage, byte) {
	if r < 0x80 {
		if active == "" {
			if len(candidates) > 0 {
				active = candidates[0]
			} else {
				active = CP437
			}
		}
		return active, byte(r)
	}

	if active != "" {
		if b, ok := EncodeRune(active, r); ok {
			return active, b
		}
	}

	for _, cp := range candidates {
		if b, ok := EncodeRune(cp, r); ok {
			return cp, b
		}
	}

	return "", 0
}
