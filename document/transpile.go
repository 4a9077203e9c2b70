package document

import "github.com/google/uuid"

// Transpile encodes doc with cs, starting from st.
//
// Composite commands are replaced by their expansion before encoding. A new
// transaction starts after every command that waits for a response, so such a
// command is always the last one of its transaction.
//
// Encoding errors do not stop the walk; all of them are returned together as
// a *TranspileError.
func Transpile(doc Document, cs CommandSet, st *State) (*CompiledDocument, error) {
	start := cs.DocumentStartCommands()
	end := cs.DocumentEndCommands()

	// Work stack: the next command to process is at the end.
	stack := make([]Command, 0, len(start)+len(doc.Commands)+len(end))
	stack = pushReversed(stack, end)
	stack = pushReversed(stack, doc.Commands)
	stack = pushReversed(stack, start)

	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	out := &CompiledDocument{
		DocumentID: id,
		Language:   cs.Language(),
	}

	var (
		errs    []error
		parts   [][]byte
		effects Effects
	)

	for len(stack) > 0 {
		cmd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if expanded := cs.Expand(cmd); len(expanded) > 0 {
			stack = pushReversed(stack, expanded)
			continue
		}

		data, err := Encode(cmd, cs, st)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		parts = append(parts, data)
		effects = effects.Union(cmd.Effects())
		st.Effects = st.Effects.Union(cmd.Effects())
		out.Effects = out.Effects.Union(cmd.Effects())

		if cmd.Effects().Has(WaitsForResponse) {
			out.Transactions = append(out.Transactions, Transaction{
				Data:    cs.Combine(parts...),
				Awaited: []Command{cmd},
				Effects: effects,
			})
			parts = nil
			effects = NoEffect
		}
	}

	if len(errs) > 0 {
		return nil, &TranspileError{Errors: errs}
	}

	if data := cs.Combine(parts...); len(data) > 0 {
		out.Transactions = append(out.Transactions, Transaction{
			Data:    data,
			Effects: effects,
		})
	}

	return out, nil
}

func pushReversed(stack, cmds []Command) []Command {
	for i := len(cmds) - 1; i >= 0; i-- {
		stack = append(stack, cmds[i])
	}
	return stack
}
