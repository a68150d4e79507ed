package flowz

import (
	"context"
	"time"
)

// InspectInfo carries the positional and timing metadata Inspect passes to
// its callback alongside each item (§4.9).
type InspectInfo struct {
	ItemIndex      int
	StreamPosition int
	ElapsedTime    time.Duration
}

// Inspect returns a Flow that calls fn(item, info) per item, then passes
// the item through unchanged. ItemIndex and StreamPosition are the same
// 0-based count in this implementation (there being no separate notion of
// "position" distinct from "index" once Skip/Take have already been
// applied upstream); ElapsedTime is measured from the first pull of this
// Flow's stream.
func Inspect[T any](name Name, fn func(item T, info InspectInfo)) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		var start time.Time
		started := false
		idx := 0
		return newStream(func(ctx context.Context) (T, bool, error) {
			if !started {
				started = true
				start = time.Now()
			}
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				return v, ok, err
			}
			info := InspectInfo{ItemIndex: idx, StreamPosition: idx, ElapsedTime: time.Since(start)}
			idx++
			fn(v, info)
			return v, true, nil
		})
	}, Metadata{"kind": "inspect"})
}
