package flowz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error provides rich context about a flow execution failure, generalizing
// pipz's Error[T] from a single failing value to the (possibly absent)
// offending item of a stream-processing failure. It wraps the underlying
// cause together with the path of flow names that observed the failure, the
// point in time it occurred, how long the operation ran before failing, and
// whether the failure was a timeout or a cancellation.
type Error[T any] struct {
	Timestamp time.Time
	Err       error
	InputData T
	HasInput  bool
	Path      []Name
	Duration  time.Duration
	Timeout   bool
	Canceled  bool
}

// Error implements the error interface.
func (e *Error[T]) Error() string {
	if e == nil {
		return "<nil>"
	}
	path := strings.Join(e.Path, " -> ")
	if path == "" {
		path = "unknown"
	}
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s timed out after %v: %v", path, e.Duration, e.Err)
	case e.Canceled:
		return fmt.Sprintf("%s canceled after %v: %v", path, e.Duration, e.Err)
	default:
		return fmt.Sprintf("%s failed after %v: %v", path, e.Duration, e.Err)
	}
}

// Unwrap returns the underlying cause, enabling errors.Is/errors.As against
// the wrapped error kinds (ValidationError, ExecutionError, TimeoutError,
// ConfigurationError, TypeMismatchError, MissingKeyError).
func (e *Error[T]) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsTimeout reports whether the failure was caused by a timeout, whether
// from a Timeout combinator or a plain context.DeadlineExceeded.
func (e *Error[T]) IsTimeout() bool {
	if e == nil {
		return false
	}
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled reports whether the failure represents cancellation rather than
// a processing error.
func (e *Error[T]) IsCanceled() bool {
	if e == nil {
		return false
	}
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}

// withPath prepends name to the error's path. If err is not already an
// *Error[T], it is wrapped fresh. This mirrors the way every pipz connector
// prepends its own name to a propagating pipeErr.Path.
func withPath[T any](name Name, data T, hasData bool, err error) *Error[T] {
	var fe *Error[T]
	if errors.As(err, &fe) {
		fe.Path = append([]Name{name}, fe.Path...)
		return fe
	}
	return &Error[T]{
		Timestamp: time.Now(),
		Err:       err,
		InputData: data,
		HasInput:  hasData,
		Path:      []Name{name},
		Timeout:   errors.Is(err, context.DeadlineExceeded),
		Canceled:  errors.Is(err, context.Canceled),
	}
}

// isCanceledChain reports whether err wraps context.Canceled anywhere in its
// chain, without requiring identity equality to context.Canceled itself.
func isCanceledChain(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Sentinel error kinds. Each is returned wrapped inside an *Error[T]'s Err
// field so callers can distinguish failure categories with errors.Is/As
// while still getting the rich path/timing/offending-item context.
var (
	// ErrValidation marks a guard, schema check, or required-key check
	// failure. The offending item is carried on the wrapping Error[T].
	ErrValidation = errors.New("flowz: validation failed")

	// ErrExecution marks a user function or upstream stream panic/error.
	ErrExecution = errors.New("flowz: execution failed")

	// ErrTimeout marks a temporal bound exceeded.
	ErrTimeout = errors.New("flowz: timeout exceeded")

	// ErrConfiguration marks a combinator constructed with invalid
	// parameters, detected at construction rather than at stream time.
	ErrConfiguration = errors.New("flowz: invalid configuration")

	// ErrMissingKey marks a context lookup for an absent typed key.
	ErrMissingKey = errors.New("flowz: context key missing")

	// ErrTypeMismatch marks a context lookup whose stored value's type tag
	// does not match the key's declared type.
	ErrTypeMismatch = errors.New("flowz: context key type mismatch")
)

// ValidationError wraps ErrValidation with a message and the offending item,
// as produced by Guard.
type ValidationError[T any] struct {
	Item    T
	Message string
}

func (e *ValidationError[T]) Error() string { return e.Message }
func (e *ValidationError[T]) Unwrap() error { return ErrValidation }

// ExecutionError wraps ErrExecution with the name of the failing combinator
// and the underlying cause, as produced by any user function or upstream
// stream that raises.
type ExecutionError struct {
	Combinator Name
	Cause      error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Combinator, e.Cause)
}
func (e *ExecutionError) Unwrap() error { return e.Cause }

// TimeoutError wraps ErrTimeout with the configured bound that was exceeded.
type TimeoutError struct {
	Bound time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("exceeded timeout of %v", e.Bound)
}
func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// ConfigurationError wraps ErrConfiguration with the offending parameter.
type ConfigurationError struct {
	Combinator Name
	Reason     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: invalid configuration: %s", e.Combinator, e.Reason)
}
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// MissingKeyError wraps ErrMissingKey with the key path that was absent.
type MissingKeyError struct {
	Path string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("context key %q not present", e.Path)
}
func (e *MissingKeyError) Unwrap() error { return ErrMissingKey }

// TypeMismatchError wraps ErrTypeMismatch with the key path and the type
// tags that disagreed.
type TypeMismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("context key %q: expected type %s, got %s", e.Path, e.Expected, e.Actual)
}
func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
