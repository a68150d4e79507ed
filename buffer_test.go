package flowz

import (
	"context"
	"testing"
)

func TestBufferFlushesOnTrigger(t *testing.T) {
	in := FromIterable([]int{1, 2, 3, 4, 5})
	trigger := FromIterable([]struct{}{{}, {}})

	buf := Buffer[int, struct{}]("buffer", trigger)
	out, err := buf.ToList(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected at least one flushed batch")
	}
	var all []int
	for _, batch := range out {
		all = append(all, batch...)
	}
	if !equalInts(all, []int{1, 2, 3, 4, 5}) {
		t.Errorf("flattened flushes = %v, want [1 2 3 4 5]", all)
	}
}

func TestBufferFlushesRemainderOnUpstreamCompletion(t *testing.T) {
	in := FromIterable([]int{1, 2, 3})
	trigger := FromIterable([]struct{}{}) // never fires

	buf := Buffer[int, struct{}]("buffer", trigger)
	out, err := buf.ToList(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected exactly one flush (the remainder), got %v", out)
	}
	if !equalInts(out[0], []int{1, 2, 3}) {
		t.Errorf("got %v, want [[1 2 3]]", out[0])
	}
}

func TestBufferEmptyInputEmitsNothing(t *testing.T) {
	in := FromIterable[int](nil)
	trigger := FromIterable([]struct{}{{}})

	buf := Buffer[int, struct{}]("buffer", trigger)
	out, err := buf.ToList(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected no flushes for empty input, got %v", out)
	}
}
