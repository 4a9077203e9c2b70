package document

// DefaultFeedLines is the number of lines ReadyFeedMedia feeds when asked for none.
const DefaultFeedLines = 4

// ReadyGetConfiguration reads the printer's identity and capabilities.
func ReadyGetConfiguration() Document {
	return NewDocument(GetConfiguration{})
}

// ReadyGetStatus probes the printer status.
func ReadyGetStatus() Document {
	return NewDocument(GetStatus{})
}

// ReadyPrintConfiguration prints the printer's settings page.
func ReadyPrintConfiguration() Document {
	return NewDocument(PrintConfiguration{})
}

// ReadyPrintTestPage prints a short page exercising text, rules and the cutter.
func ReadyPrintTestPage() Document {
	return NewDocument(
		Reset{},
		TextFormatting{Format: TextFormat{Alignment: AlignCenter, Bold: On}},
		Text{Text: "Printer test page"},
		Newline{},
		TextFormatting{Format: TextFormat{ResetToDefault: true}},
		HorizontalRule{Style: RuleSingle},
		Newline{},
		Text{Text: "Àçčéñtš €uro ÆØÅ ЖЩ αβγ"},
		Newline{},
		HorizontalRule{Style: RuleDouble},
		Newline{},
		NewCut(CutPartial),
	)
}

// ReadyFeedMedia feeds lines of blank paper.
func ReadyFeedMedia(lines int) Document {
	if lines <= 0 {
		lines = DefaultFeedLines
	}
	cmds := make([]Command, lines)
	for i := range cmds {
		cmds[i] = Newline{}
	}
	return NewDocument(cmds...)
}

// ReadyOpenDrawer pulses the first drawer kick pin.
func ReadyOpenDrawer() Document {
	return NewDocument(NewPulseOutput(Drawer1, DefaultPulseMS, DefaultPulseMS))
}
