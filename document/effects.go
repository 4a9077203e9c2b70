package document

import "strings"

// Effects is a set of observable side effects a command has on the printer.
type Effects uint8

// Effect flags.
const (
	FeedsPaper Effects = 1 << iota
	ActuatesCutter
	PulsesOutputPins
	WaitsForResponse
	AltersConfig
	LossOfConnection
	Unknown

	NoEffect Effects = 0
)

var effectNames = []struct {
	flag Effects
	name string
}{
	{FeedsPaper, "feedsPaper"},
	{ActuatesCutter, "actuatesCutter"},
	{PulsesOutputPins, "pulsesOutputPins"},
	{WaitsForResponse, "waitsForResponse"},
	{AltersConfig, "altersConfig"},
	{LossOfConnection, "lossOfConnection"},
	{Unknown, "unknown"},
}

// Has reports whether every flag in other is present in e.
func (e Effects) Has(other Effects) bool {
	return e&other == other
}

// Union returns the flags present in either set.
func (e Effects) Union(other Effects) Effects {
	return e | other
}

// List returns the names of the flags in e, in declaration order.
func (e Effects) List() []string {
	var names []string
	for _, n := range effectNames {
		if e&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

func (e Effects) String() string {
	if e == NoEffect {
		return "none"
	}
	return strings.Join(e.List(), ",")
}
