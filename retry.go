package flowz

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// BackoffKind selects the spacing policy Retry uses between attempts.
type BackoffKind int

const (
	// BackoffFixed waits the same base duration between every attempt.
	BackoffFixed BackoffKind = iota
	// BackoffLinear waits base*attemptNumber between attempts.
	BackoffLinear
	// BackoffExponential waits base*2^(attemptNumber-1) between attempts.
	BackoffExponential
)

// Backoff configures Retry's inter-attempt delay policy.
type Backoff struct {
	Kind BackoffKind
	Base time.Duration
}

// delay returns the wait before attempt number n (1-based; n==1 means no
// wait, since the first attempt is immediate).
func (b Backoff) delay(n int) time.Duration {
	if n <= 1 {
		return 0
	}
	switch b.Kind {
	case BackoffLinear:
		return b.Base * time.Duration(n-1)
	case BackoffExponential:
		d := b.Base
		for i := 1; i < n-1; i++ {
			d *= 2
		}
		return d
	default:
		return b.Base
	}
}

// Observability keys for Retry (§4.8).
const (
	RetryAttemptsTotal  = metricz.Key("flowz.retry.attempts.total")
	RetrySuccessesTotal = metricz.Key("flowz.retry.successes.total")
	RetryFailuresTotal  = metricz.Key("flowz.retry.failures.total")
	RetryProcessSpan    = tracez.Key("flowz.retry.process")
	RetryTagAttempt     = tracez.Tag("flowz.retry.attempt")
	RetryEventAttempt   = hookz.Key("flowz.retry.attempt")
	RetryEventExhausted = hookz.Key("flowz.retry.exhausted")
)

// RetryEvent is fired via hooks after each attempt and on exhaustion.
type RetryEvent struct {
	Name        Name
	Attempt     int
	MaxAttempts int
	Success     bool
	Error       error
	Timestamp   time.Time
}

// Retry wraps a per-item producing function so that a failing pull is
// re-attempted up to maxAttempts-1 further times, waiting per backoff
// between attempts, before surfacing an ExecutionError (§4.8). Retry
// re-invokes the same underlying pull function against the same item it was
// given; it is meant to wrap a FromValueFn-style per-item function rather
// than an arbitrary Flow, since replaying an upstream Stream pull is not
// generally safe (a Stream may only be consumed once).
type Retry[In, Out any] struct {
	name        Name
	f           func(context.Context, In) (Out, error)
	maxAttempts int
	backoff     Backoff
	clock       clockz.Clock
	metrics     *metricz.Registry
	tracer      *tracez.Tracer
	hooks       *hookz.Hooks[RetryEvent]
}

// NewRetry constructs a Retry wrapper. maxAttempts below 1 is treated as 1
// (no retry), the same clamp-at-construction convention used elsewhere
// in this package.
func NewRetry[In, Out any](name Name, f func(context.Context, In) (Out, error), maxAttempts int, backoff Backoff) *Retry[In, Out] {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	metrics := metricz.New()
	metrics.Counter(RetryAttemptsTotal)
	metrics.Counter(RetrySuccessesTotal)
	metrics.Counter(RetryFailuresTotal)
	return &Retry[In, Out]{
		name:        name,
		f:           f,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		clock:       clockz.RealClock,
		metrics:     metrics,
		tracer:      tracez.New(),
		hooks:       hookz.New[RetryEvent](),
	}
}

// WithClock substitutes the clock used for inter-attempt waits.
func (r *Retry[In, Out]) WithClock(clock clockz.Clock) *Retry[In, Out] {
	r.clock = clock
	return r
}

// OnAttempt registers a hook invoked after every attempt.
func (r *Retry[In, Out]) OnAttempt(fn func(context.Context, RetryEvent) error) error {
	_, err := r.hooks.Hook(RetryEventAttempt, fn)
	return err
}

// OnExhausted registers a hook invoked once all attempts are exhausted.
func (r *Retry[In, Out]) OnExhausted(fn func(context.Context, RetryEvent) error) error {
	_, err := r.hooks.Hook(RetryEventExhausted, fn)
	return err
}

// Flow returns a Flow applying the wrapped function to each upstream item
// with retry semantics.
func (r *Retry[In, Out]) Flow() Flow[In, Out] {
	f := FromValueFn(r.name, func(ctx context.Context, v In) (Out, error) {
		ctx, span := r.tracer.StartSpan(ctx, RetryProcessSpan)
		defer span.Finish()

		var lastErr error
		for attempt := 1; attempt <= r.maxAttempts; attempt++ {
			if d := r.backoff.delay(attempt); d > 0 {
				select {
				case <-r.clock.After(d):
				case <-ctx.Done():
					var zero Out
					return zero, ctx.Err()
				}
			}
			span.SetTag(RetryTagAttempt, string(rune('0'+attempt%10)))
			r.metrics.Counter(RetryAttemptsTotal).Inc()
			out, err := r.f(ctx, v)
			_ = r.hooks.Emit(ctx, RetryEventAttempt, RetryEvent{
				Name: r.name, Attempt: attempt, MaxAttempts: r.maxAttempts, Success: err == nil, Error: err, Timestamp: r.clock.Now(),
			})
			if err == nil {
				r.metrics.Counter(RetrySuccessesTotal).Inc()
				return out, nil
			}
			lastErr = err
			if ctx.Err() != nil {
				var zero Out
				return zero, ctx.Err()
			}
		}
		r.metrics.Counter(RetryFailuresTotal).Inc()
		_ = r.hooks.Emit(ctx, RetryEventExhausted, RetryEvent{
			Name: r.name, Attempt: r.maxAttempts, MaxAttempts: r.maxAttempts, Success: false, Error: lastErr, Timestamp: r.clock.Now(),
		})
		var zero Out
		return zero, lastErr
	})
	return NewFlow(f.Name(), f.Apply, cloneMeta(f.Metadata(), Metadata{"kind": "retry", "max_attempts": r.maxAttempts}))
}
