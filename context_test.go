package flowz

import (
	"errors"
	"testing"
)

func TestContextGetSetRoundTrip(t *testing.T) {
	key := NewTypedKey[int]("user.id", "the current user id")
	c := NewContext()
	if _, err := Get(c, key); err == nil {
		t.Fatal("expected MissingKeyError on an empty context")
	}

	c2 := Set(c, key, 42)
	v, err := Get(c2, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Errorf("got %d, want 42", v)
	}

	// Set must not mutate the original Context.
	if Has(c, key) {
		t.Error("Set must not mutate the original Context")
	}
}

func TestContextTypeMismatch(t *testing.T) {
	intKey := NewTypedKey[int]("shared.path", "")
	strKey := NewTypedKey[string]("shared.path", "")
	c := Set(NewContext(), intKey, 1)

	_, err := Get(c, strKey)
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
}

func TestContextForkIsolation(t *testing.T) {
	key := NewTypedKey[int]("n", "")
	base := Set(NewContext(), key, 1)
	fork := Fork(base)
	fork = Set(fork, key, 2)

	baseVal, _ := Get(base, key)
	forkVal, _ := Get(fork, key)
	if baseVal != 1 {
		t.Errorf("fork write leaked into base: got %d, want 1", baseVal)
	}
	if forkVal != 2 {
		t.Errorf("got %d, want 2", forkVal)
	}
}

func TestContextPopLayerFailsAtRoot(t *testing.T) {
	c := NewContext()
	if !c.IsRoot() {
		t.Fatal("a fresh Context should be at the root frame")
	}
	_, err := PopLayer(c)
	if err == nil {
		t.Fatal("expected an error popping the root frame")
	}

	key := NewTypedKey[int]("n", "")
	pushed := PushLayer(c)
	pushed = Set(pushed, key, 1)
	popped, err := PopLayer(pushed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Has(popped, key) {
		t.Error("expected the pushed layer's binding to be gone after PopLayer")
	}
}

func TestContextPopLayerUndoesEveryOverlappingSet(t *testing.T) {
	keyA := NewTypedKey[int]("a", "")
	keyB := NewTypedKey[int]("b", "")

	base := Set(NewContext(), keyA, 1)
	pushed := PushLayer(base)
	pushed = Set(pushed, keyA, 2)
	pushed = Set(pushed, keyB, 1)

	// Both Sets wrote into the same pushed layer: a single PopLayer must
	// undo both, not just the most recent one.
	popped, err := PopLayer(pushed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := Get(popped, keyA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Errorf("expected the layer's overwrite of a to be undone, got a=%d, want 1", v)
	}
	if Has(popped, keyB) {
		t.Error("expected b's binding (set entirely within the popped layer) to be gone")
	}
}

func TestContextSetAndForgetToleratesZeroValue(t *testing.T) {
	key := NewTypedKey[int]("n", "")
	var zero Context

	set := Set(zero, key, 1)
	v, err := Get(set, key)
	if err != nil || v != 1 {
		t.Fatalf("Set on a zero-value Context: got v=%d err=%v, want v=1 err=nil", v, err)
	}

	forgotten := Forget(set, key)
	if Has(forgotten, key) {
		t.Error("expected key to be gone after Forget")
	}
}

func TestContextMergeIsRightBiased(t *testing.T) {
	keyA := NewTypedKey[int]("a", "")
	keyB := NewTypedKey[int]("b", "")

	a := Set(Set(NewContext(), keyA, 1), keyB, 1)
	b := Set(NewContext(), keyB, 2)

	merged := MergeContexts(a, b)
	va, _ := Get(merged, keyA)
	vb, _ := Get(merged, keyB)
	if va != 1 {
		t.Errorf("got a=%d, want 1", va)
	}
	if vb != 2 {
		t.Errorf("got b=%d, want 2 (b's binding should win on conflict)", vb)
	}
}
