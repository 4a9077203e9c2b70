// Package devlock serializes access to a printer across processes with
// advisory lock files.
package devlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the device lock.
var ErrLocked = errors.New("device is in use by another process")

// Lock is an acquired device lock.
type Lock struct {
	lock *flock.Flock
	path string
}

// Acquire takes the lock for device without blocking.
func Acquire(dir, device string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}

	path := filepath.Join(dir, lockName(device))
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, device)
	}

	return &Lock{lock: fl, path: path}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release unlocks the device. The lock file is left in place.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}

// lockName maps a device path or address to a file name.
func lockName(device string) string {
	name := strings.Trim(device, "/")
	name = strings.NewReplacer("/", "_", ":", "_", "\\", "_", "?", "_", "&", "_").Replace(name)
	if name == "" {
		name = "default"
	}
	return name + ".lock"
}
