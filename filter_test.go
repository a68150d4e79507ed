package flowz

import (
	"context"
	"testing"
)

func TestFilterKeepsOnlyMatching(t *testing.T) {
	isEven := Filter[int]("even", func(_ context.Context, v int) bool { return v%2 == 0 })
	out, err := isEven.ToList(context.Background(), FromIterable([]int{1, 2, 3, 4, 5, 6}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(out, []int{2, 4, 6}) {
		t.Errorf("got %v, want [2 4 6]", out)
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	keep := Filter[int]("keep-3+", func(_ context.Context, v int) bool { return v >= 3 })
	out, err := keep.ToList(context.Background(), FromIterable([]int{5, 1, 4, 3, 2}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(out, []int{5, 4, 3}) {
		t.Errorf("got %v, want [5 4 3]", out)
	}
}

func TestFilterRejectingEverythingEmitsNothing(t *testing.T) {
	none := Filter[int]("none", func(_ context.Context, v int) bool { return false })
	out, err := none.ToList(context.Background(), FromIterable([]int{1, 2, 3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %v, want []", out)
	}
}
