package flowz

import (
	"context"
	"errors"
	"testing"
)

func TestLogErrorsReportsThenReraises(t *testing.T) {
	boom := errors.New("boom")
	failing := newStream(func(ctx context.Context) (int, bool, error) {
		return 0, false, boom
	})

	var reported error
	var reportedName Name
	le := LogErrors[int]("log-errors", func(_ context.Context, name Name, err error) {
		reportedName = name
		reported = err
	})

	_, err := le.ToList(context.Background(), failing)
	if !errors.Is(err, boom) {
		t.Fatalf("expected LogErrors to re-raise boom, got %v", err)
	}
	if !errors.Is(reported, boom) {
		t.Fatalf("expected sink to observe boom, got %v", reported)
	}
	if reportedName != "log-errors" {
		t.Errorf("got name %q, want log-errors", reportedName)
	}
}

func TestLogErrorsDoesNotReportOnExhaustion(t *testing.T) {
	calls := 0
	le := LogErrors[int]("log-errors", func(_ context.Context, name Name, err error) {
		calls++
	})
	out, err := le.ToList(context.Background(), FromIterable([]int{1, 2}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(out, []int{1, 2}) {
		t.Errorf("got %v, want [1 2]", out)
	}
	if calls != 0 {
		t.Errorf("expected sink to never be called on clean exhaustion, got %d calls", calls)
	}
}

func TestLogErrorsDoesNotReportOnCancellation(t *testing.T) {
	cancelling := newStream(func(ctx context.Context) (int, bool, error) {
		return 0, false, context.Canceled
	})
	calls := 0
	le := LogErrors[int]("log-errors", func(_ context.Context, name Name, err error) {
		calls++
	})
	_, err := le.ToList(context.Background(), cancelling)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled to propagate, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected sink to never be called on cancellation, got %d calls", calls)
	}
}
