package flowz

import (
	"context"
	"testing"
)

func TestMemoizeReplacesRepeatsWithFirstSeenValue(t *testing.T) {
	type item struct {
		key string
		val int
	}
	byKey := Memoize[item, string]("memoize", func(_ context.Context, it item) string { return it.key })

	in := []item{
		{"a", 1},
		{"b", 2},
		{"a", 99}, // should be replaced by the first "a" value, 1
		{"a", 100},
		{"b", 200},
	}
	out, err := byKey.ToList(context.Background(), FromIterable(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []item{
		{"a", 1},
		{"b", 2},
		{"a", 1},
		{"a", 1},
		{"b", 2},
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

func TestMemoizeNeverDropsItems(t *testing.T) {
	ident := Memoize[int, int]("memoize", func(_ context.Context, n int) int { return n })
	in := ints(5)
	out, err := ident.ToList(context.Background(), FromIterable(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Errorf("memoize must never drop items, got %d of %d", len(out), len(in))
	}
}
