package flowz

import (
	"context"
	"testing"
)

func TestUntilStopsAfterMatchingItem(t *testing.T) {
	stopAt3 := Until[int]("until-3", func(_ context.Context, v int) bool { return v == 3 })
	out, err := stopAt3.ToList(context.Background(), FromIterable([]int{1, 2, 3, 4, 5}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(out, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", out)
	}
}

func TestUntilNeverMatchingDrainsUpstream(t *testing.T) {
	never := Until[int]("never", func(_ context.Context, v int) bool { return false })
	out, err := never.ToList(context.Background(), FromIterable([]int{1, 2, 3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(out, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", out)
	}
}

func TestUntilClosesUpstreamOnceMatched(t *testing.T) {
	closed := false
	calls := 0
	upstream := newManagedStream(func(ctx context.Context) (int, bool, error) {
		calls++
		return calls, true, nil
	}, func() { closed = true })

	stopAt2 := Until[int]("until-2", func(_ context.Context, v int) bool { return v == 2 }).Apply(upstream)
	out, err := ToList(context.Background(), stopAt2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(out, []int{1, 2}) {
		t.Errorf("got %v, want [1 2]", out)
	}
	if !closed {
		t.Error("expected upstream to be closed once the stop predicate matched")
	}
}
