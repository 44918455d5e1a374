package document

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSection marks malformed section data or a forbidden section
	// transition. The wrapped message names the violated rule.
	ErrInvalidSection = errors.New("invalid section")
	ErrNotFound       = errors.New("not found")
	// ErrConflict is returned when another writer appended a revision first.
	ErrConflict = errors.New("revision conflict")
)

// InvalidSection wraps ErrInvalidSection with a stable message.
func InvalidSection(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidSection, msg)
}

// NotFound wraps ErrNotFound with what could not be found.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
