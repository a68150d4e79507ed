package flowz

import (
	"context"
	"sync"
	"testing"
)

func TestShareBroadcastsToEverySubscriber(t *testing.T) {
	in := FromIterable(ints(5))
	subs := Share[int]("share", in, 3)
	if len(subs) != 3 {
		t.Fatalf("expected 3 subscribers, got %d", len(subs))
	}

	results := make([][]int, 3)
	var wg sync.WaitGroup
	for i, s := range subs {
		wg.Add(1)
		go func(i int, s *Stream[int]) {
			defer wg.Done()
			out, err := s.ToList(context.Background())
			if err != nil {
				t.Errorf("subscriber %d: unexpected error: %v", i, err)
				return
			}
			results[i] = out
		}(i, s)
	}
	wg.Wait()

	for i, out := range results {
		if !equalInts(out, ints(5)) {
			t.Errorf("subscriber %d: got %v, want %v", i, out, ints(5))
		}
	}
}

func TestShareNonPositiveCountReturnsNil(t *testing.T) {
	in := FromIterable(ints(3))
	subs := Share[int]("share", in, 0)
	if subs != nil {
		t.Errorf("expected nil for non-positive subscriber count, got %v", subs)
	}
}
