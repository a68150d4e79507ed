package flowz

import "context"

// Buffer returns a Flow that accumulates upstream items into a list and
// flushes it as a single emitted item whenever trigger fires, resetting the
// accumulator afterward; any items still pending when the upstream
// completes are flushed once more before Buffer itself completes (§4.5).
// Unlike Batch, the flush boundary is driven by an independent signal
// stream rather than a fixed count.
//
// Both in and trigger are drained by background goroutines feeding a single
// events channel, since the flush condition must be observable even while
// the combinator is otherwise waiting on the next upstream item.
func Buffer[T, S any](name Name, trigger *Stream[S]) Flow[T, []T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[[]T] {
		ctx, cancel := context.WithCancel(context.Background())

		type event struct {
			item    T
			hasItem bool
			flush   bool
			done    bool
			err     error
		}
		events := make(chan event, 16)

		go func() {
			for {
				v, ok, err := in.Next(ctx)
				if err != nil {
					select {
					case events <- event{done: true, err: err}:
					case <-ctx.Done():
					}
					return
				}
				if !ok {
					select {
					case events <- event{done: true}:
					case <-ctx.Done():
					}
					return
				}
				select {
				case events <- event{item: v, hasItem: true}:
				case <-ctx.Done():
					return
				}
			}
		}()

		go func() {
			for {
				_, ok, err := trigger.Next(ctx)
				if err != nil || !ok {
					return
				}
				select {
				case events <- event{flush: true}:
				case <-ctx.Done():
					return
				}
			}
		}()

		out := make(chan result[[]T], 1)
		go func() {
			defer close(out)
			var pending []T
			for {
				select {
				case <-ctx.Done():
					return
				case ev := <-events:
					if ev.done {
						if len(pending) > 0 {
							select {
							case out <- result[[]T]{val: pending, ok: true}:
							case <-ctx.Done():
								return
							}
						}
						if ev.err != nil {
							select {
							case out <- result[[]T]{err: ev.err}:
							case <-ctx.Done():
							}
						}
						return
					}
					if ev.hasItem {
						pending = append(pending, ev.item)
						continue
					}
					// flush
					if len(pending) > 0 {
						batch := pending
						pending = nil
						select {
						case out <- result[[]T]{val: batch, ok: true}:
						case <-ctx.Done():
							return
						}
					}
				}
			}
		}()

		return newManagedStream(chanNext(out), func() {
			cancel()
			in.Close()
			trigger.Close()
		})
	}, Metadata{"kind": "buffer"})
}
