package document

import (
	"fmt"
	"strings"
)

// Toggle is a tri-state on/off setting where the zero value means "leave unchanged".
type Toggle uint8

// Toggle values.
const (
	ToggleUnset Toggle = iota
	Off
	On
)

func (t Toggle) String() string {
	switch t {
	case Off:
		return "off"
	case On:
		return "on"
	default:
		return "unset"
	}
}

// Underline selects the underline weight. The zero value leaves it unchanged.
type Underline uint8

// Underline values.
const (
	UnderlineUnset Underline = iota
	UnderlineNone
	UnderlineSingle
	UnderlineDouble
)

func (u Underline) String() string {
	switch u {
	case UnderlineNone:
		return "none"
	case UnderlineSingle:
		return "single"
	case UnderlineDouble:
		return "double"
	default:
		return "unset"
	}
}

// Alignment selects text justification. The zero value leaves it unchanged.
type Alignment uint8

// Alignment values.
const (
	AlignUnset Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "unset"
	}
}

// ParseAlignment resolves "left", "center" or "right".
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return AlignUnset, fmt.Errorf("unknown alignment %q", s)
	}
}

// Character magnification limits.
const (
	MinCharacterScale = 1
	MaxCharacterScale = 8
)

// TextFormat describes a change in text decoration.
// Zero-valued fields are absent and leave the current setting untouched.
type TextFormat struct {
	// ResetToDefault forces every field back to its default before the
	// explicit fields are applied.
	ResetToDefault bool

	Bold      Toggle
	Invert    Toggle
	Underline Underline
	Alignment Alignment

	// Width and Height are character magnification factors (1-8), 0 when absent.
	Width  uint8
	Height uint8
}

// DefaultTextFormat is the format a printer has after a reset.
func DefaultTextFormat() TextFormat {
	return TextFormat{
		Bold:      Off,
		Invert:    Off,
		Underline: UnderlineNone,
		Alignment: AlignLeft,
		Width:     1,
		Height:    1,
	}
}

// IsEmpty reports whether applying f would change nothing.
func (f TextFormat) IsEmpty() bool {
	return !f.ResetToDefault &&
		f.Bold == ToggleUnset &&
		f.Invert == ToggleUnset &&
		f.Underline == UnderlineUnset &&
		f.Alignment == AlignUnset &&
		f.Width == 0 &&
		f.Height == 0
}

// Resolve returns the fields that must be sent to apply f.
// With ResetToDefault every field is filled, using the default where f has none.
func (f TextFormat) Resolve() TextFormat {
	if !f.ResetToDefault {
		return f
	}
	out := DefaultTextFormat().Merge(f)
	out.ResetToDefault = true
	return out
}

// Merge overlays the present fields of next onto f.
func (f TextFormat) Merge(next TextFormat) TextFormat {
	if next.Bold != ToggleUnset {
		f.Bold = next.Bold
	}
	if next.Invert != ToggleUnset {
		f.Invert = next.Invert
	}
	if next.Underline != UnderlineUnset {
		f.Underline = next.Underline
	}
	if next.Alignment != AlignUnset {
		f.Alignment = next.Alignment
	}
	if next.Width != 0 {
		f.Width = clampScale(next.Width)
	}
	if next.Height != 0 {
		f.Height = clampScale(next.Height)
	}
	return f
}

func (f TextFormat) String() string {
	var parts []string
	if f.ResetToDefault {
		parts = append(parts, "reset")
	}
	if f.Bold != ToggleUnset {
		parts = append(parts, "bold="+f.Bold.String())
	}
	if f.Invert != ToggleUnset {
		parts = append(parts, "invert="+f.Invert.String())
	}
	if f.Underline != UnderlineUnset {
		parts = append(parts, "underline="+f.Underline.String())
	}
	if f.Alignment != AlignUnset {
		parts = append(parts, "align="+f.Alignment.String())
	}
	if f.Width != 0 {
		parts = append(parts, fmt.Sprintf("width=%d", f.Width))
	}
	if f.Height != 0 {
		parts = append(parts, fmt.Sprintf("height=%d", f.Height))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func clampScale(v uint8) uint8 {
	if v < MinCharacterScale {
		return MinCharacterScale
	}
	if v > MaxCharacterScale {
		return MaxCharacterScale
	}
	return v
}
