package flowz

import "context"

// Share takes ownership of in and returns n independent streams, each of
// which observes every item in in, in the same order. It exists because the
// stream contract is otherwise single-consumer (§2): Share is the explicit
// escape hatch for fan-out.
//
// A single goroutine drains in and broadcasts each item to every consumer's
// own buffered channel. A slow consumer applies backpressure to the shared
// pull from in (the broadcast blocks until every consumer's channel has
// room), so Share never buffers unboundedly in the producer's favor.
func Share[T any](name Name, in *Stream[T], n int) []*Stream[T] {
	if n <= 0 {
		return nil
	}
	chans := make([]chan result[T], n)
	for i := range chans {
		chans[i] = make(chan result[T], 16)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer func() {
			for _, ch := range chans {
				close(ch)
			}
		}()
		for {
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				for _, ch := range chans {
					select {
					case ch <- result[T]{err: err}:
					case <-ctx.Done():
					}
				}
				return
			}
			for _, ch := range chans {
				select {
				case ch <- result[T]{val: v, ok: true}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	out := make([]*Stream[T], n)
	closeOnce := func() { cancel(); in.Close() }
	for i, ch := range chans {
		out[i] = newManagedStream(chanNext(ch), closeOnce)
	}
	return out
}
