package document

import "github.com/google/uuid"

// Document is an ordered list of commands to print.
type Document struct {
	// ID identifies the document in logs and the print journal.
	ID string

	Commands []Command
}

// NewDocument returns a document with a fresh ID.
func NewDocument(cmds ...Command) Document {
	return Document{
		ID:       uuid.NewString(),
		Commands: cmds,
	}
}

// Transaction is a buffer sent in one write, optionally followed by a wait
// for the replies to its awaited commands.
type Transaction struct {
	Data    []byte
	Awaited []Command
	Effects Effects
}

// CompiledDocument is a document encoded for one printer language.
type CompiledDocument struct {
	DocumentID   string
	Language     string
	Effects      Effects
	Transactions []Transaction
}

// Size returns the number of bytes across all transactions.
func (c *CompiledDocument) Size() int {
	n := 0
	for _, tx := range c.Transactions {
		n += len(tx.Data)
	}
	return n
}

// AwaitedCount returns the number of replies the document waits for.
func (c *CompiledDocument) AwaitedCount() int {
	n := 0
	for _, tx := range c.Transactions {
		n += len(tx.Awaited)
	}
	return n
}
