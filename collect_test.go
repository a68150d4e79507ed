package flowz

import (
	"context"
	"errors"
	"testing"
)

func TestCollectBuffersEntireUpstreamIntoOneSlice(t *testing.T) {
	c := Collect[int]("collect")
	out, err := c.ToList(context.Background(), FromIterable([]int{1, 2, 3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected exactly one emission, got %d", len(out))
	}
	if !equalInts(out[0], []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", out[0])
	}
}

func TestCollectEmptyUpstreamEmitsEmptySlice(t *testing.T) {
	c := Collect[int]("collect")
	out, err := c.ToList(context.Background(), FromIterable([]int{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || len(out[0]) != 0 {
		t.Errorf("got %v, want a single empty slice", out)
	}
}

func TestCollectPropagatesUpstreamError(t *testing.T) {
	boom := errors.New("boom")
	failing := newStream(func(ctx context.Context) (int, bool, error) {
		return 0, false, boom
	})
	c := Collect[int]("collect")
	_, err := c.ToList(context.Background(), failing)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
}
