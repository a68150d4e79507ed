package flowz

import (
	"context"
	"errors"
	"testing"
)

func TestMaterializeEncodesCompletion(t *testing.T) {
	mat := Materialize[int]("materialize")
	out, err := mat.ToList(context.Background(), FromIterable([]int{1, 2}))
	if err != nil {
		t.Fatalf("materialize must never surface errors out of band, got %v", err)
	}
	want := []Notification[int]{
		{Kind: OnNext, Value: 1},
		{Kind: OnNext, Value: 2},
		{Kind: OnComplete},
	}
	if len(out) != len(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("at %d: got %+v, want %+v", i, out[i], want[i])
		}
	}
}

func TestMaterializeEncodesError(t *testing.T) {
	boom := errors.New("boom")
	failing := newStream(func(ctx context.Context) (int, bool, error) {
		return 0, false, boom
	})
	mat := Materialize[int]("materialize")
	out, err := mat.ToList(context.Background(), failing)
	if err != nil {
		t.Fatalf("materialize must never surface errors out of band, got %v", err)
	}
	if len(out) != 1 || out[0].Kind != OnError || !errors.Is(out[0].Err, boom) {
		t.Fatalf("got %+v, want a single OnError(boom) notification", out)
	}
}

// TestMaterializeDematerializeRoundTrip covers §8 invariant 9.
func TestMaterializeDematerializeRoundTrip(t *testing.T) {
	pipeline := Pipe(Materialize[int]("materialize"), Dematerialize[int]("dematerialize"))
	out, err := pipeline.ToList(context.Background(), FromIterable([]int{1, 2, 3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(out, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", out)
	}
}

func TestDematerializeReraisesOnError(t *testing.T) {
	boom := errors.New("boom")
	notifications := FromIterable([]Notification[int]{
		{Kind: OnNext, Value: 1},
		{Kind: OnError, Err: boom},
	})
	dmat := Dematerialize[int]("dematerialize")
	out, err := dmat.ToList(context.Background(), notifications)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
	if !equalInts(out, []int{1}) {
		t.Errorf("got %v, want [1] before the error", out)
	}
}
