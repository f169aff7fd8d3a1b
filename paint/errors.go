package paint

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition marks calls made in a state or with arguments the
	// painter cannot accept. Nothing is modified when it is returned.
	ErrPrecondition = errors.New("paint: precondition violated")

	// ErrIllegalArgument is the caller-facing subset of ErrPrecondition:
	// an out of range opacity factor, threshold or output format.
	ErrIllegalArgument = fmt.Errorf("%w: illegal argument", ErrPrecondition)

	// ErrNotSampleable is returned by Select on a painter without layers.
	ErrNotSampleable = errors.New("paint: painter has no layers to sample")

	// ErrClosed is returned by every operation on a closed painter.
	ErrClosed = errors.New("paint: painter is closed")
)

func precondition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

func illegalArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalArgument, fmt.Sprintf(format, args...))
}
