package flowz

import (
	"context"
	"errors"
)

// CatchAndContinue returns a Flow that, when the upstream terminates with an
// ExecutionError, invokes handler with the error and the offending item (if
// known) and either emits handler's returned value (ok=true) or skips to
// the next item (ok=false) — it never re-raises, per §4.8. Errors that are
// not an ExecutionError (e.g. a ValidationError from an upstream Guard) pass
// through unhandled, since CatchAndContinue's contract is specifically
// about execution failures.
func CatchAndContinue[T any](name Name, handler func(ctx context.Context, err error, item T, hasItem bool) (T, bool)) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		done := false
		return newStream(func(ctx context.Context) (T, bool, error) {
			if done {
				var zero T
				return zero, false, nil
			}
			for {
				v, ok, err := in.Next(ctx)
				if err == nil {
					return v, ok, nil
				}
				if IsCancellation(err) {
					done = true
					var zero T
					return zero, false, err
				}
				var execErr *ExecutionError
				item, hasItem := offendingItem[T](err)
				if !isExecutionFailure(err, &execErr) {
					done = true
					var zero T
					return zero, false, err
				}
				recovered, emit := handler(ctx, err, item, hasItem)
				if emit {
					return recovered, true, nil
				}
				continue
			}
		})
	}, Metadata{"kind": "catch_and_continue"})
}

// Recover is like CatchAndContinue, but the handler returns a replacement
// Stream inserted at the point of failure instead of a single value (§4.8).
// Once the replacement stream is exhausted, Recover resumes pulling from
// the original upstream (which, past an error, is expected to be done; most
// callers pair Recover with a stream that fails at most once).
func Recover[T any](name Name, handler func(ctx context.Context, err error, item T, hasItem bool) *Stream[T]) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		var replacement *Stream[T]
		done := false
		return newStream(func(ctx context.Context) (T, bool, error) {
			if done {
				var zero T
				return zero, false, nil
			}
			for {
				if replacement != nil {
					v, ok, err := replacement.Next(ctx)
					if err != nil {
						done = true
						var zero T
						return zero, false, err
					}
					if ok {
						return v, true, nil
					}
					replacement = nil
					continue
				}
				v, ok, err := in.Next(ctx)
				if err == nil {
					return v, ok, nil
				}
				if IsCancellation(err) {
					done = true
					var zero T
					return zero, false, err
				}
				item, hasItem := offendingItem[T](err)
				replacement = handler(ctx, err, item, hasItem)
			}
		})
	}, Metadata{"kind": "recover"})
}

// offendingItem extracts the offending item carried by an *Error[T], if the
// failing error is wrapped in one.
func offendingItem[T any](err error) (T, bool) {
	var fe *Error[T]
	if errors.As(err, &fe) && fe.HasInput {
		return fe.InputData, true
	}
	var zero T
	return zero, false
}

// isExecutionFailure reports whether err is (or wraps) an *ExecutionError.
func isExecutionFailure(err error, target **ExecutionError) bool {
	return errors.As(err, target)
}
