package flowz

import "context"

// ErrorSink receives a terminating error observed by LogErrors.
type ErrorSink func(ctx context.Context, name Name, err error)

// LogErrors returns a Flow that passes every item through unchanged and,
// when the upstream terminates with a non-cancellation error, reports it to
// sink before re-raising — it never suppresses the error, per §4.8 ("log
// errors ... identity that reports errors to a sink and re-raises").
func LogErrors[T any](name Name, sink ErrorSink) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		return newStream(func(ctx context.Context) (T, bool, error) {
			v, ok, err := in.Next(ctx)
			if err != nil && !IsCancellation(err) {
				sink(ctx, name, err)
			}
			return v, ok, err
		})
	}, Metadata{"kind": "log_errors"})
}
