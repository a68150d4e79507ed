package flowz

import "context"

// Window returns a Flow that emits sliding windows of length size: the
// first once size items have arrived, then one every step items after that,
// each holding the size most recent items. It never emits a partial window
// (§4.5). Window(n) is the step=1 default.
func Window[T any](name Name, size int, step ...int) Flow[T, []T] {
	if size < 1 {
		size = 1
	}
	s := 1
	if len(step) > 0 && step[0] > 0 {
		s = step[0]
	}
	return NewFlow(name, func(in *Stream[T]) *Stream[[]T] {
		var buf []T
		sinceEmit := 0
		first := true
		return newStream(func(ctx context.Context) ([]T, bool, error) {
			for {
				v, ok, err := in.Next(ctx)
				if err != nil || !ok {
					return nil, false, err
				}
				buf = append(buf, v)
				if len(buf) > size {
					buf = buf[len(buf)-size:]
				}
				if len(buf) < size {
					continue
				}
				if !first && sinceEmit < s {
					sinceEmit++
					continue
				}
				first = false
				sinceEmit = 1
				out := make([]T, size)
				copy(out, buf)
				return out, true, nil
			}
		})
	}, Metadata{"kind": "window", "size": size, "step": s})
}
