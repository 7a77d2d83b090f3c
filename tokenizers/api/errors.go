package api

import (
	"github.com/pkg/errors"
)

// Error kinds reported by tokenizers. Use errors.Is to test for them.
var (
	// ErrInvalidConfig is reported for invalid training parameters, e.g. a non-positive vocabulary size.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrCorruptModel is reported when a persisted model is malformed or internally inconsistent.
	ErrCorruptModel = errors.New("corrupt model")

	// ErrUnknownID is reported when decoding an id that is not in the vocabulary.
	ErrUnknownID = errors.New("unknown id")

	// ErrUnresolvedSymbol is reported when encoding produces a symbol with no id in the vocabulary.
	ErrUnresolvedSymbol = errors.New("unresolved symbol")

	// ErrIOFailure is reported when a model can't be read from or written to storage.
	ErrIOFailure = errors.New("io failure")
)

// kindError tags an error with one of the error kinds, while keeping the original cause reachable.
type kindError struct {
	kind  error
	cause error
}

// Error implements error.
func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

// Is reports whether target is the kind of the error.
func (e *kindError) Is(target error) bool {
	return target == e.kind
}

// Unwrap returns the cause.
func (e *kindError) Unwrap() error {
	return e.cause
}

// Cause implements the github.com/pkg/errors causer interface.
func (e *kindError) Cause() error {
	return e.cause
}

// WithKind tags err with the given kind (one of the Err* variables of this package).
// It returns nil if err is nil.
func WithKind(kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, cause: err}
}

// Errorf creates a new error of the given kind, with a formatted message and a stack trace.
func Errorf(kind error, format string, args ...any) error {
	return WithKind(kind, errors.Errorf(format, args...))
}
