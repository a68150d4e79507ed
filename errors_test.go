package flowz

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithPathPrependsOnFreshError(t *testing.T) {
	boom := errors.New("boom")
	wrapped := withPath("stage1", 7, true, boom)
	if !errors.Is(wrapped, boom) {
		t.Fatalf("expected the wrapped error to unwrap to boom")
	}
	if len(wrapped.Path) != 1 || wrapped.Path[0] != "stage1" {
		t.Errorf("got path %v, want [stage1]", wrapped.Path)
	}
	if !wrapped.HasInput || wrapped.InputData != 7 {
		t.Errorf("got HasInput=%v InputData=%d, want true 7", wrapped.HasInput, wrapped.InputData)
	}
}

func TestWithPathPrependsOnAlreadyWrappedError(t *testing.T) {
	boom := errors.New("boom")
	first := withPath("stage1", 7, true, boom)
	second := withPath("stage2", 7, true, first)

	if second != first {
		t.Fatal("expected withPath to prepend onto the existing *Error[T] rather than re-wrap")
	}
	if len(second.Path) != 2 || second.Path[0] != "stage2" || second.Path[1] != "stage1" {
		t.Errorf("got path %v, want [stage2 stage1]", second.Path)
	}
}

func TestErrorIsTimeoutAndIsCanceled(t *testing.T) {
	te := withPath("timeout-stage", 0, false, context.DeadlineExceeded)
	if !te.IsTimeout() {
		t.Error("expected IsTimeout to be true for a DeadlineExceeded-wrapping error")
	}
	if te.IsCanceled() {
		t.Error("did not expect IsCanceled to be true for a timeout")
	}

	ce := withPath("cancel-stage", 0, false, context.Canceled)
	if !ce.IsCanceled() {
		t.Error("expected IsCanceled to be true for a Canceled-wrapping error")
	}
	if ce.IsTimeout() {
		t.Error("did not expect IsTimeout to be true for a cancellation")
	}
}

func TestErrorStringFormatsByKind(t *testing.T) {
	boom := errors.New("boom")
	plain := withPath("s", 0, false, boom)
	plain.Duration = 5 * time.Millisecond
	if got := plain.Error(); got == "" {
		t.Error("expected a non-empty error string")
	}

	timedOut := &Error[int]{Path: []Name{"s"}, Err: boom, Timeout: true, Duration: time.Second}
	if got := timedOut.Error(); got == "" || !errors.Is(timedOut, boom) {
		t.Errorf("expected a timeout-formatted error string, got %q", got)
	}
}

func TestValidationErrorUnwrapsToSentinel(t *testing.T) {
	ve := &ValidationError[int]{Item: -1, Message: "must be positive"}
	if !errors.Is(ve, ErrValidation) {
		t.Error("expected ValidationError to unwrap to ErrValidation")
	}
	if ve.Error() != "must be positive" {
		t.Errorf("got %q, want %q", ve.Error(), "must be positive")
	}
}

func TestExecutionErrorUnwrapsToCause(t *testing.T) {
	boom := errors.New("boom")
	ee := &ExecutionError{Combinator: "map", Cause: boom}
	if !errors.Is(ee, boom) {
		t.Error("expected ExecutionError to unwrap to its Cause")
	}
}

func TestTimeoutErrorUnwrapsToSentinel(t *testing.T) {
	te := &TimeoutError{Bound: 10 * time.Millisecond}
	if !errors.Is(te, ErrTimeout) {
		t.Error("expected TimeoutError to unwrap to ErrTimeout")
	}
}

func TestConfigurationErrorUnwrapsToSentinel(t *testing.T) {
	ce := &ConfigurationError{Combinator: "retry", Reason: "maxAttempts must be >= 1"}
	if !errors.Is(ce, ErrConfiguration) {
		t.Error("expected ConfigurationError to unwrap to ErrConfiguration")
	}
}

func TestMissingKeyErrorUnwrapsToSentinel(t *testing.T) {
	mk := &MissingKeyError{Path: "user.id"}
	if !errors.Is(mk, ErrMissingKey) {
		t.Error("expected MissingKeyError to unwrap to ErrMissingKey")
	}
}

func TestTypeMismatchErrorUnwrapsToSentinel(t *testing.T) {
	tm := &TypeMismatchError{Path: "user.id", Expected: "int", Actual: "string"}
	if !errors.Is(tm, ErrTypeMismatch) {
		t.Error("expected TypeMismatchError to unwrap to ErrTypeMismatch")
	}
}
