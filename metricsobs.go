package flowz

import (
	"context"
	"fmt"
)

// MetricsRecorder receives named counter-increment events from Metrics.
type MetricsRecorder func(event string)

// Metrics returns a Flow that reports stream lifecycle events to recorder:
// "stream.started" before the first pull, "stream.item" once per emitted
// item, "stream.error" on error, "stream.completed" on any termination
// (exhaustion, error, or cancellation), and a final "stream.total_items.N"
// naming the exact count observed (§4.9). Items pass through unchanged.
func Metrics[T any](name Name, recorder MetricsRecorder) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		started := false
		completed := false
		count := 0
		return newStream(func(ctx context.Context) (T, bool, error) {
			if !started {
				started = true
				recorder("stream.started")
			}
			v, ok, err := in.Next(ctx)
			if err != nil {
				if !IsCancellation(err) {
					recorder("stream.error")
				}
				if !completed {
					completed = true
					recorder("stream.completed")
					recorder(fmt.Sprintf("stream.total_items.%d", count))
				}
				return v, ok, err
			}
			if !ok {
				if !completed {
					completed = true
					recorder("stream.completed")
					recorder(fmt.Sprintf("stream.total_items.%d", count))
				}
				return v, false, nil
			}
			count++
			recorder("stream.item")
			return v, true, nil
		})
	}, Metadata{"kind": "metrics"})
}
