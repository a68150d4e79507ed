package flowz

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestHistoryTrackerGetHistoryIsMostRecentFirst(t *testing.T) {
	clock := clockz.NewFakeClock()
	h := NewHistoryTracker(10).WithClock(clock)

	h.RecordChange("a", nil, 1, 1)
	clock.Advance(time.Second)
	h.RecordChange("b", nil, 2, 1)
	clock.Advance(time.Second)
	h.RecordChange("c", nil, 3, 1)

	got := h.GetHistory(0)
	want := []string{"c", "b", "a"}
	for i, k := range want {
		if got[i].Key != k {
			t.Errorf("index %d: got key %q, want %q", i, got[i].Key, k)
		}
	}
}

func TestHistoryTrackerGetHistoryLimit(t *testing.T) {
	h := NewHistoryTracker(10)
	h.RecordChange("a", nil, 1, 1)
	h.RecordChange("b", nil, 2, 1)
	h.RecordChange("c", nil, 3, 1)

	got := h.GetHistory(2)
	if len(got) != 2 || got[0].Key != "c" || got[1].Key != "b" {
		t.Errorf("got %v, want [c b]", got)
	}
}

func TestHistoryTrackerSizeCapDiscardsOldest(t *testing.T) {
	h := NewHistoryTracker(2)
	h.RecordChange("a", nil, 1, 1)
	h.RecordChange("b", nil, 2, 1)
	h.RecordChange("c", nil, 3, 1)

	if h.GetHistorySize() != 2 {
		t.Fatalf("got size %d, want 2", h.GetHistorySize())
	}
	got := h.GetHistory(0)
	if got[0].Key != "c" || got[1].Key != "b" {
		t.Errorf("got %v, want [c b] (a should have been discarded)", got)
	}
}

func TestHistoryTrackerReplayIsChronologicalReverseIsNot(t *testing.T) {
	clock := clockz.NewFakeClock()
	h := NewHistoryTracker(10).WithClock(clock)

	start := clock.Now()
	h.RecordChange("a", nil, 1, 1)
	clock.Advance(time.Second)
	h.RecordChange("b", nil, 2, 1)
	clock.Advance(time.Second)
	h.RecordChange("c", nil, 3, 1)

	replay := h.ReplayChangesSince(start)
	if len(replay) != 3 || replay[0].Key != "a" || replay[1].Key != "b" || replay[2].Key != "c" {
		t.Errorf("got replay order %v, want chronological [a b c]", replay)
	}

	reverse := h.GetChangesToReverse(start)
	if len(reverse) != 3 || reverse[0].Key != "c" || reverse[1].Key != "b" || reverse[2].Key != "a" {
		t.Errorf("got reverse order %v, want most-recent-first [c b a]", reverse)
	}
}

func TestHistoryTrackerClearHistory(t *testing.T) {
	h := NewHistoryTracker(10)
	h.RecordChange("a", nil, 1, 1)
	h.ClearHistory()
	if h.GetHistorySize() != 0 {
		t.Errorf("expected ClearHistory to empty the tracker, got size %d", h.GetHistorySize())
	}
}

func TestHistoryTrackerSetMaxHistorySize(t *testing.T) {
	h := NewHistoryTracker(10)
	h.RecordChange("a", nil, 1, 1)
	h.RecordChange("b", nil, 2, 1)
	h.RecordChange("c", nil, 3, 1)

	if err := h.SetMaxHistorySize(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.GetHistorySize() != 1 {
		t.Errorf("expected SetMaxHistorySize to trim immediately, got size %d", h.GetHistorySize())
	}
	if got := h.GetHistory(0); got[0].Key != "c" {
		t.Errorf("expected the most recent event to survive trimming, got %v", got)
	}

	if err := h.SetMaxHistorySize(-1); err == nil {
		t.Fatal("expected an error setting a negative max history size")
	}

	if err := h.SetMaxHistorySize(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.GetHistorySize() != 0 {
		t.Errorf("expected size 0 to clear immediately, got size %d", h.GetHistorySize())
	}
}

func TestTrackHistoryRecordsChangesAndPassesThrough(t *testing.T) {
	key := NewTypedKey[int]("n", "")
	tracker := NewHistoryTracker(10)
	flow := TrackHistory("track", tracker)

	first := Set(NewContext(), key, 1)
	second := Set(NewContext(), key, 2)
	third := second // no change from second to third

	out, err := flow.ToList(context.Background(), FromIterable([]Context{first, second, third}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected all 3 contexts to pass through unchanged, got %d", len(out))
	}

	history := tracker.GetHistory(0)
	if len(history) != 1 {
		t.Fatalf("expected exactly 1 recorded change (1 -> 2; the first context establishes the baseline, the third repeats the second), got %d: %v", len(history), history)
	}
	if history[0].Key != "n" || history[0].OldValue != 1 || history[0].NewValue != 2 {
		t.Errorf("got %+v, want key=n old=1 new=2", history[0])
	}
}

func TestComputedKeyRecomputesOnlyWhenDependenciesChange(t *testing.T) {
	a := NewTypedKey[int]("a", "")
	b := NewTypedKey[int]("b", "")
	sum := NewTypedKey[int]("sum", "")

	calls := 0
	graph := NewDependencyGraph()
	ck := ComputedKey("sum-ab", sum, []KeyRef{a, b}, func(_ context.Context, c Context) int {
		calls++
		av, _ := Get(c, a)
		bv, _ := Get(c, b)
		return av + bv
	}, graph)

	c1 := Set(Set(NewContext(), a, 1), b, 2)
	c2 := Set(Set(NewContext(), a, 1), b, 2)   // same dependency values as c1
	c3 := Set(Set(NewContext(), a, 5), b, 2)   // a changed

	out, err := ck.ToList(context.Background(), FromIterable([]Context{c1, c2, c3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []int{3, 3, 7} {
		got, gerr := Get(out[i], sum)
		if gerr != nil || got != want {
			t.Errorf("index %d: got %d err=%v, want %d", i, got, gerr, want)
		}
	}
	if calls != 2 {
		t.Errorf("expected the cached result to be reused when dependencies are unchanged, got %d compute calls", calls)
	}

	if deps := graph.GetDependents("a"); !sameStringSet(deps, []string{"sum"}) {
		t.Errorf("expected ComputedKey to register sum as a's dependent, got %v", deps)
	}
	if deps := graph.GetDependents("b"); !sameStringSet(deps, []string{"sum"}) {
		t.Errorf("expected ComputedKey to register sum as b's dependent, got %v", deps)
	}
}
