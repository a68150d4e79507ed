package flowz

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

// ErrCircuitOpen is returned (wrapped in an ExecutionError) when the circuit
// is open and an item is failed fast without invoking the wrapped function.
var ErrCircuitOpen = errors.New("flowz: circuit breaker is open")

// Observability keys for CircuitBreaker (§4.8).
const (
	CircuitBreakerOpenedTotal  = metricz.Key("flowz.circuit_breaker.opened.total")
	CircuitBreakerRejected     = metricz.Key("flowz.circuit_breaker.rejected.total")
	CircuitBreakerProcessSpan  = tracez.Key("flowz.circuit_breaker.process")
	CircuitBreakerTagState     = tracez.Tag("flowz.circuit_breaker.state")
	CircuitBreakerEventOpened  = hookz.Key("flowz.circuit_breaker.opened")
	CircuitBreakerEventClosed  = hookz.Key("flowz.circuit_breaker.closed")
	CircuitBreakerEventHalfOpn = hookz.Key("flowz.circuit_breaker.half_open")
)

// CircuitBreakerEvent is fired via hooks on every state transition.
type CircuitBreakerEvent struct {
	Name      Name
	State     string
	Failures  int
	Timestamp time.Time
}

// CircuitBreaker implements the three-state (closed/open/half-open) circuit
// breaker of §4.8: in closed state it counts consecutive failures and opens
// at threshold; in open state it fails fast for cooldown and then admits one
// half-open probe; the probe's success closes the circuit, its failure
// reopens it.
type CircuitBreaker[In, Out any] struct {
	name      Name
	f         func(context.Context, In) (Out, error)
	threshold int
	cooldown  time.Duration
	clock     clockz.Clock

	mu            sync.Mutex
	state         circuitState
	failures      int
	lastFailure   time.Time
	probeInFlight bool

	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[CircuitBreakerEvent]
}

// NewCircuitBreaker constructs a CircuitBreaker. threshold below 1 is
// treated as 1.
func NewCircuitBreaker[In, Out any](name Name, f func(context.Context, In) (Out, error), threshold int, cooldown time.Duration) *CircuitBreaker[In, Out] {
	if threshold < 1 {
		threshold = 1
	}
	metrics := metricz.New()
	metrics.Counter(CircuitBreakerOpenedTotal)
	metrics.Counter(CircuitBreakerRejected)
	return &CircuitBreaker[In, Out]{
		name:      name,
		f:         f,
		threshold: threshold,
		cooldown:  cooldown,
		clock:     clockz.RealClock,
		state:     circuitClosed,
		metrics:   metrics,
		tracer:    tracez.New(),
		hooks:     hookz.New[CircuitBreakerEvent](),
	}
}

// WithClock substitutes the clock used for the cooldown timer.
func (c *CircuitBreaker[In, Out]) WithClock(clock clockz.Clock) *CircuitBreaker[In, Out] {
	c.clock = clock
	return c
}

// OnOpened registers a hook invoked when the circuit opens.
func (c *CircuitBreaker[In, Out]) OnOpened(fn func(context.Context, CircuitBreakerEvent) error) error {
	_, err := c.hooks.Hook(CircuitBreakerEventOpened, fn)
	return err
}

// OnClosed registers a hook invoked when the circuit closes.
func (c *CircuitBreaker[In, Out]) OnClosed(fn func(context.Context, CircuitBreakerEvent) error) error {
	_, err := c.hooks.Hook(CircuitBreakerEventClosed, fn)
	return err
}

func (c *CircuitBreaker[In, Out]) stateName(s circuitState) string {
	switch s {
	case circuitOpen:
		return "open"
	case circuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Flow returns the guarded Flow.
func (c *CircuitBreaker[In, Out]) Flow() Flow[In, Out] {
	return FromValueFn(c.name, func(ctx context.Context, v In) (Out, error) {
		ctx, span := c.tracer.StartSpan(ctx, CircuitBreakerProcessSpan)
		defer span.Finish()

		c.mu.Lock()
		if c.state == circuitOpen && c.clock.Now().Sub(c.lastFailure) >= c.cooldown {
			c.state = circuitHalfOpen
			c.probeInFlight = false
			_ = c.hooks.Emit(ctx, CircuitBreakerEventHalfOpn, CircuitBreakerEvent{Name: c.name, State: "half-open", Timestamp: c.clock.Now()})
		}
		switch c.state {
		case circuitOpen:
			c.mu.Unlock()
			c.metrics.Counter(CircuitBreakerRejected).Inc()
			span.SetTag(CircuitBreakerTagState, "open")
			var zero Out
			return zero, ErrCircuitOpen
		case circuitHalfOpen:
			if c.probeInFlight {
				c.mu.Unlock()
				c.metrics.Counter(CircuitBreakerRejected).Inc()
				var zero Out
				return zero, ErrCircuitOpen
			}
			c.probeInFlight = true
		}
		c.mu.Unlock()

		span.SetTag(CircuitBreakerTagState, c.stateName(c.state))
		out, err := c.f(ctx, v)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.failures++
			c.lastFailure = c.clock.Now()
			c.probeInFlight = false
			if c.state == circuitHalfOpen || c.failures >= c.threshold {
				c.state = circuitOpen
				c.metrics.Counter(CircuitBreakerOpenedTotal).Inc()
				_ = c.hooks.Emit(ctx, CircuitBreakerEventOpened, CircuitBreakerEvent{Name: c.name, State: "open", Failures: c.failures, Timestamp: c.clock.Now()})
			}
			var zero Out
			return zero, err
		}
		c.failures = 0
		c.probeInFlight = false
		if c.state != circuitClosed {
			_ = c.hooks.Emit(ctx, CircuitBreakerEventClosed, CircuitBreakerEvent{Name: c.name, State: "closed", Timestamp: c.clock.Now()})
		}
		c.state = circuitClosed
		return out, nil
	})
}
