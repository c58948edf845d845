package media

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOpen   = errors.New("open failed")
	ErrTrim   = errors.New("trim failed")
	ErrConcat = errors.New("concatenate failed")
	ErrWrite  = errors.New("write failed")
	// ErrClosed marks use of a handle after Close.
	ErrClosed = errors.New("handle closed")
)

// Wrap tags err with one of the exported markers and a short description of
// the subject (usually a path). A nil err produces a marker-only error.
func Wrap(marker error, subject, message string, err error) error {
	if marker == nil {
		marker = ErrWrite
	}
	parts := make([]string, 0, 2)
	if subject = strings.TrimSpace(subject); subject != "" {
		parts = append(parts, subject)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	detail := strings.Join(parts, ": ")
	switch {
	case err != nil && detail != "":
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	case err != nil:
		return fmt.Errorf("%w: %w", marker, err)
	case detail != "":
		return fmt.Errorf("%w: %s", marker, detail)
	default:
		return marker
	}
}
