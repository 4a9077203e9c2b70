package printer

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotReady is returned when the session is closed or its transport has failed.
var ErrNotReady = errors.New("printer not ready")

// TimeoutError indicates that the printer did not answer in time.
type TimeoutError struct {
	Operation string
	Pending   int
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out after %s with %d replies pending",
		e.Operation, e.Timeout, e.Pending)
}

// IsTimeout returns true if err is or wraps a TimeoutError.
func IsTimeout(err error) bool {
	var t *TimeoutError
	return errors.As(err, &t)
}
