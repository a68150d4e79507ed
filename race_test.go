package flowz

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRaceEmitsFastestChild(t *testing.T) {
	slow := FromValueFn[int, string]("slow", func(_ context.Context, n int) (string, error) {
		time.Sleep(30 * time.Millisecond)
		return "slow", nil
	})
	fast := FromValueFn[int, string]("fast", func(_ context.Context, n int) (string, error) {
		return "fast", nil
	})
	race := RaceFlows("race", slow, fast)

	out, err := race.ToList(context.Background(), FromIterable([]int{1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0] != "fast" {
		t.Fatalf("got %v, want [fast]", out)
	}
}

func TestRaceNoChildrenCompletesEmpty(t *testing.T) {
	race := RaceFlows[int, int]("race")
	out, err := race.ToList(context.Background(), FromIterable([]int{1, 2}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected no output with zero children, got %v", out)
	}
}

func TestRacePropagatesWinningError(t *testing.T) {
	boom := errors.New("boom")
	failing := FromValueFn[int, int]("fails", func(_ context.Context, n int) (int, error) {
		return 0, boom
	})
	race := RaceFlows[int, int]("race", failing)

	_, err := race.ToList(context.Background(), FromIterable([]int{1}))
	if err == nil {
		t.Fatal("expected an error")
	}
	var ee *ExecutionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExecutionError, got %T: %v", err, err)
	}
}
