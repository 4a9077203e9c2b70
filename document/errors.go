package document

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotImplemented is wrapped by validation errors for commands the
	// command set cannot encode.
	ErrNotImplemented = errors.New("command not implemented")

	// ErrUnknownExtendedCommand is wrapped when no handler is registered for
	// an Extended command's key.
	ErrUnknownExtendedCommand = errors.New("no handler registered for extended command")
)

// ValidationError indicates that a command cannot be encoded.
type ValidationError struct {
	// Command is the display name of the offending command.
	Command string

	// Reason describes the problem.
	Reason string

	// Err is an optional underlying sentinel.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Command)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotImplemented returns the validation error for a command the command set
// does not support.
func NotImplemented(cmd Command) *ValidationError {
	return &ValidationError{
		Command: cmd.Name(),
		Reason:  "Command not implemented",
		Err:     ErrNotImplemented,
	}
}

// TranspileError collects every validation error found in a document.
type TranspileError struct {
	Errors []error
}

func (e *TranspileError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("transpile document: %d validation error(s): %s",
		len(e.Errors), strings.Join(msgs, "; "))
}

func (e *TranspileError) Unwrap() []error { return e.Errors }

// MessageParsingError describes printer output that could not be decoded.
type MessageParsingError struct {
	Reason   string
	Received []byte
}

func (e *MessageParsingError) Error() string {
	return fmt.Sprintf("parse printer message: %s (received % X)", e.Reason, e.Received)
}

// UnexpectedReplyError is returned when the printer sends a reply while no
// command is waiting for one. The length of such a reply cannot be known, so
// the buffered input has to be discarded.
type UnexpectedReplyError struct {
	// Kind is the classification of the leading byte.
	Kind     string
	Received []byte
}

func (e *UnexpectedReplyError) Error() string {
	return fmt.Sprintf("received %s message (0x%02X) with no command awaiting a reply", e.Kind, firstByte(e.Received))
}

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func firstByte(b []byte) byte {
	if len(b) == 0 {
		return 0
	}
	return b[0]
}
