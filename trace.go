package flowz

import "context"

// Tracer receives named trace events from Trace. event is one of
// "stream_start", "item", "error", or "stream_end"; data carries the item
// for "item" events and nil otherwise, per §4.9.
type Tracer func(event string, data any)

// Trace returns a Flow that reports the lifecycle of the upstream to
// tracer: tracer("stream_start", nil) before the first pull, then
// tracer("item", x) per emitted item, then exactly one of
// tracer("error", e) or tracer("stream_end", nil) on termination. Items and
// termination pass through unchanged.
func Trace[T any](name Name, tracer Tracer) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		started := false
		ended := false
		return newStream(func(ctx context.Context) (T, bool, error) {
			if !started {
				started = true
				tracer("stream_start", nil)
			}
			v, ok, err := in.Next(ctx)
			if err != nil {
				if !ended {
					ended = true
					tracer("error", err)
				}
				return v, ok, err
			}
			if !ok {
				if !ended {
					ended = true
					tracer("stream_end", nil)
				}
				return v, false, nil
			}
			tracer("item", v)
			return v, true, nil
		})
	}, Metadata{"kind": "trace"})
}
