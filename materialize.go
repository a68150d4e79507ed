package flowz

import "context"

// NotificationKind tags which variant a Notification carries.
type NotificationKind int

const (
	// OnNext carries an emitted value.
	OnNext NotificationKind = iota
	// OnError carries the stream's terminating error.
	OnError
	// OnComplete marks normal exhaustion.
	OnComplete
)

// Notification is the tagged variant Materialize emits, re-expressing
// stream termination as an ordinary value per §3: OnNext(v)*
// (OnError(e) | OnComplete).
type Notification[T any] struct {
	Kind  NotificationKind
	Value T
	Err   error
}

// Materialize returns a Flow converting a Stream[T] into a Stream of
// Notification[T]: one OnNext per upstream item, followed by exactly one
// OnError or OnComplete, then the Materialize stream itself completes
// normally — errors never surface out-of-band, per §4.9.
func Materialize[T any](name Name) Flow[T, Notification[T]] {
	return NewFlow(name, func(in *Stream[T]) *Stream[Notification[T]] {
		done := false
		return newStream(func(ctx context.Context) (Notification[T], bool, error) {
			if done {
				var zero Notification[T]
				return zero, false, nil
			}
			v, ok, err := in.Next(ctx)
			if err != nil {
				done = true
				return Notification[T]{Kind: OnError, Err: err}, true, nil
			}
			if !ok {
				done = true
				return Notification[T]{Kind: OnComplete}, true, nil
			}
			return Notification[T]{Kind: OnNext, Value: v}, true, nil
		})
	}, Metadata{"kind": "materialize"})
}

// Dematerialize is the inverse of Materialize: it unwraps a Stream of
// Notification[T] back into a plain Stream[T], re-raising any OnError it
// observes and completing at OnComplete, satisfying the round-trip property
// of §8 (Dematerialize ∘ Materialize ≡ identity).
func Dematerialize[T any](name Name) Flow[Notification[T], T] {
	return NewFlow(name, func(in *Stream[Notification[T]]) *Stream[T] {
		done := false
		return newStream(func(ctx context.Context) (T, bool, error) {
			if done {
				var zero T
				return zero, false, nil
			}
			n, ok, err := in.Next(ctx)
			if err != nil || !ok {
				done = true
				var zero T
				return zero, false, err
			}
			switch n.Kind {
			case OnNext:
				return n.Value, true, nil
			case OnError:
				done = true
				var zero T
				return zero, false, n.Err
			default:
				done = true
				var zero T
				return zero, false, nil
			}
		})
	}, Metadata{"kind": "dematerialize"})
}
