package flowz

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestDelayPreservesOrderAndWaits(t *testing.T) {
	clock := clockz.NewFakeClock()
	delay := DelayWithClock[int]("delay", 10*time.Millisecond, clock)

	var out []int
	var err error
	done := make(chan struct{})
	go func() {
		defer close(done)
		out, err = delay.ToList(context.Background(), FromIterable([]int{1, 2, 3}))
	}()

	for i := 0; i < 3; i++ {
		time.Sleep(5 * time.Millisecond)
		clock.Advance(10 * time.Millisecond)
		clock.BlockUntilReady()
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("test timed out")
	}

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(out, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", out)
	}
}
