// Package circuitbreaker wraps sony/gobreaker with defaults tuned for
// exchange API calls: trip fast on consecutive failures, recover after
// a short cool-down.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/lmoreno/cyclearb/internal/apperror"
)

// Config holds circuit breaker settings.
type Config struct {
	Name                string
	MaxRequests         uint32        // allowed through while half-open
	Interval            time.Duration // counter reset interval while closed
	Timeout             time.Duration // open -> half-open transition
	ConsecutiveFailures uint32        // failures that trip the breaker
	OnStateChange       func(name string, from, to gobreaker.State)
}

// DefaultConfig returns settings suitable for REST market-data calls.
func DefaultConfig(name string) Config {
	return Config{
		Name:                name,
		MaxRequests:         1,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// Breaker executes calls through a circuit breaker, returning typed
// errors when the circuit rejects the call.
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New creates a Breaker from the given config.
func New[T any](cfg Config) *Breaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = cfg.OnStateChange
	}

	return &Breaker[T]{
		cb: gobreaker.NewCircuitBreaker[T](settings),
	}
}

// Execute runs fn through the breaker.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(fn)
	switch err {
	case gobreaker.ErrOpenState:
		var zero T
		return zero, apperror.New(apperror.CodeCircuitOpen, apperror.WithContext(b.cb.Name()))
	case gobreaker.ErrTooManyRequests:
		var zero T
		return zero, apperror.New(apperror.CodeCircuitHalfOpen, apperror.WithContext(b.cb.Name()))
	}
	return result, err
}

// State returns the current breaker state.
func (b *Breaker[T]) State() gobreaker.State {
	return b.cb.State()
}
