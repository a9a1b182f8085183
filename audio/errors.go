// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrInvalidInput marks a signal that breaks a precondition of the
	// operation it was passed to. Match it with errors.Is.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownFormat is returned by Registry.Lookup when no decoder is
	// registered for a name's extension.
	ErrUnknownFormat = errors.New("unknown audio format")
)

// InputError reports which operation rejected its input and why.
type InputError struct {
	Op     string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, ErrInvalidInput, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// InvalidInput builds an *InputError for op.
func InvalidInput(op, format string, args ...any) error {
	return &InputError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
