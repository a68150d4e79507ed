package flowz

import (
	"context"
	"errors"
	"testing"
)

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestIdentityLaw(t *testing.T) {
	double := Map("double", func(_ context.Context, n int) int { return n * 2 })
	composed := Pipe(Identity[int](), double)

	got, err := composed.ToList(context.Background(), FromIterable(ints(5)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := double.ToList(context.Background(), FromIterable(ints(5)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(got, want) {
		t.Errorf("identity ∘ f = %v, want %v", got, want)
	}

	composed2 := Pipe(double, Identity[int]())
	got2, _ := composed2.ToList(context.Background(), FromIterable(ints(5)))
	if !equalInts(got2, want) {
		t.Errorf("f ∘ identity = %v, want %v", got2, want)
	}
}

func TestAssociativity(t *testing.T) {
	f := Map[int, int]("inc", func(_ context.Context, n int) int { return n + 1 })
	g := Map[int, int]("double", func(_ context.Context, n int) int { return n * 2 })
	h := Map[int, int]("square", func(_ context.Context, n int) int { return n * n })

	left := Pipe(Pipe(f, g), h)
	right := Pipe(f, Pipe(g, h))

	a, _ := left.ToList(context.Background(), FromIterable(ints(6)))
	b, _ := right.ToList(context.Background(), FromIterable(ints(6)))
	if !equalInts(a, b) {
		t.Errorf("(f∘g)∘h = %v, f∘(g∘h) = %v", a, b)
	}
}

func TestPurePurity(t *testing.T) {
	out, err := ToList(context.Background(), Pure(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(out, []int{42}) {
		t.Errorf("Pure(42) = %v, want [42]", out)
	}

	// Pure ignores whatever input stream it logically follows.
	flatten := FlatMap("const-pure", func(_ context.Context, _ int) *Stream[int] {
		return Pure(7)
	})
	out2, err := flatten.ToList(context.Background(), FromIterable(ints(3)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(out2, []int{7, 7, 7}) {
		t.Errorf("expected pure(v) once per input item, got %v", out2)
	}
}

func TestToListAndPreview(t *testing.T) {
	out, err := ToList(context.Background(), FromIterable(ints(5)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(out, []int{0, 1, 2, 3, 4}) {
		t.Errorf("got %v", out)
	}

	preview, err := Preview(context.Background(), FromIterable(ints(10)), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(preview, []int{0, 1, 2}) {
		t.Errorf("got %v", preview)
	}

	previewShort, err := Preview(context.Background(), FromIterable(ints(2)), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(previewShort, []int{0, 1}) {
		t.Errorf("got %v", previewShort)
	}
}

func TestWithFallback(t *testing.T) {
	empty := Filter("none", func(_ context.Context, n int) bool { return false })
	out, err := empty.WithFallback(-1).ToList(context.Background(), FromIterable(ints(3)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(out, []int{-1}) {
		t.Errorf("expected fallback [-1], got %v", out)
	}

	nonEmpty := Filter("even", func(_ context.Context, n int) bool { return n%2 == 0 })
	out2, err := nonEmpty.WithFallback(-1).ToList(context.Background(), FromIterable(ints(4)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(out2, []int{0, 2}) {
		t.Errorf("expected no fallback since stream emitted, got %v", out2)
	}
}

func TestIsCancellation(t *testing.T) {
	if !IsCancellation(context.Canceled) {
		t.Error("expected context.Canceled to be a cancellation")
	}
	if IsCancellation(errors.New("boom")) {
		t.Error("expected a plain error to not be a cancellation")
	}
	if IsCancellation(nil) {
		t.Error("expected nil to not be a cancellation")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
