package flowz

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// ContextChangeEvent records one context key's observed value transition,
// mirroring the original system's change-history audit entries.
type ContextChangeEvent struct {
	Key       string
	OldValue  any
	NewValue  any
	ContextID uint64
	Timestamp time.Time
}

// String renders e for debugging, including its timestamp the way the
// original event's repr does.
func (e ContextChangeEvent) String() string {
	return fmt.Sprintf("ContextChangeEvent(key=%s, old=%v, new=%v, t=%s)", e.Key, e.OldValue, e.NewValue, e.Timestamp.Format(time.RFC3339Nano))
}

// HistoryTracker is a bounded, queryable log of context key changes. It
// stores at most maxSize events, discarding the oldest once full.
type HistoryTracker struct {
	mu      sync.Mutex
	events  []ContextChangeEvent // oldest first
	maxSize int
	clock   clockz.Clock
}

// NewHistoryTracker returns a HistoryTracker capped at maxSize events.
// Negative sizes are clamped to zero, the same clamp-at-construction
// convention used elsewhere in this package.
func NewHistoryTracker(maxSize int) *HistoryTracker {
	if maxSize < 0 {
		maxSize = 0
	}
	return &HistoryTracker{maxSize: maxSize, clock: clockz.RealClock}
}

// WithClock substitutes the clock HistoryTracker stamps events with, the
// same substitution point Retry and CircuitBreaker expose for their own
// time sources.
func (h *HistoryTracker) WithClock(clock clockz.Clock) *HistoryTracker {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clock = clock
	return h
}

// RecordChange appends one change event, trimming the oldest event first if
// the tracker is already at its size cap.
func (h *HistoryTracker) RecordChange(key string, oldValue, newValue any, contextID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.maxSize == 0 {
		return
	}
	h.events = append(h.events, ContextChangeEvent{
		Key: key, OldValue: oldValue, NewValue: newValue, ContextID: contextID, Timestamp: h.clock.Now(),
	})
	if over := len(h.events) - h.maxSize; over > 0 {
		h.events = h.events[over:]
	}
}

// GetHistory returns up to limit events, most-recent-first. limit<=0 means
// no limit.
func (h *HistoryTracker) GetHistory(limit int) []ContextChangeEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]ContextChangeEvent, n)
	for i := 0; i < n; i++ {
		out[i] = h.events[len(h.events)-1-i]
	}
	return out
}

// GetHistorySince returns every event recorded at or after since,
// most-recent-first.
func (h *HistoryTracker) GetHistorySince(since time.Time) []ContextChangeEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []ContextChangeEvent
	for i := len(h.events) - 1; i >= 0; i-- {
		if !h.events[i].Timestamp.Before(since) {
			out = append(out, h.events[i])
		}
	}
	return out
}

// ReplayChangesSince returns every event recorded at or after since, in
// chronological (oldest-first) order — the order a caller would re-apply
// them in to replay forward from since.
func (h *HistoryTracker) ReplayChangesSince(since time.Time) []ContextChangeEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []ContextChangeEvent
	for _, e := range h.events {
		if !e.Timestamp.Before(since) {
			out = append(out, e)
		}
	}
	return out
}

// GetChangesToReverse returns every event recorded at or after since, in
// reverse-chronological (most-recent-first) order — the order a caller
// would undo them in to roll back to since.
func (h *HistoryTracker) GetChangesToReverse(since time.Time) []ContextChangeEvent {
	return h.GetHistorySince(since)
}

// GetHistorySize returns the number of events currently retained.
func (h *HistoryTracker) GetHistorySize() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

// ClearHistory discards every retained event.
func (h *HistoryTracker) ClearHistory() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = nil
}

// SetMaxHistorySize changes the retention cap, trimming immediately if the
// tracker already holds more than n events. It returns a ConfigurationError
// for a negative n rather than clamping, since this is a runtime mutation
// rather than a constructor.
func (h *HistoryTracker) SetMaxHistorySize(n int) error {
	if n < 0 {
		return &ConfigurationError{Combinator: "history_tracker", Reason: "max history size cannot be negative"}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxSize = n
	if over := len(h.events) - n; over > 0 {
		h.events = h.events[over:]
	}
	return nil
}

// TrackHistory returns a Flow that passes each Context through unchanged
// while recording into tracker every key that is present with a new or
// changed value since the previous Context it observed. Keys forgotten or
// removed since then are not recorded. The first Context observed
// establishes the baseline and produces no events.
func TrackHistory(name Name, tracker *HistoryTracker) Flow[Context, Context] {
	return NewFlow(name, func(in *Stream[Context]) *Stream[Context] {
		var prev map[string]ctxEntry
		haveBaseline := false
		return newStream(func(ctx context.Context) (Context, bool, error) {
			c, ok, err := in.Next(ctx)
			if err != nil || !ok {
				return Context{}, false, err
			}
			flat := flattenFrames(c)
			if haveBaseline {
				id := contextID(c)
				for k, entry := range flat {
					if entry.forgotten {
						continue
					}
					old, existed := prev[k]
					if !existed || old.forgotten || !reflect.DeepEqual(old.value, entry.value) {
						var oldVal any
						if existed && !old.forgotten {
							oldVal = old.value
						}
						tracker.RecordChange(k, oldVal, entry.value, id)
					}
				}
			}
			prev = flat
			haveBaseline = true
			return c, true, nil
		})
	}, Metadata{"kind": "track_history"})
}
