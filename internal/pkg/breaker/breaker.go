// Package breaker builds the circuit breakers that guard calls to external
// services (the payment processor, the message broker).
package breaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

const consecutiveFailuresToTrip = 3

// Option adjusts the breaker settings.
type Option func(*gobreaker.Settings)

// IgnoreErrors keeps errors matched by ignore from counting as failures.
// They are still returned to the caller.
func IgnoreErrors(ignore func(error) bool) Option {
	return func(s *gobreaker.Settings) {
		s.IsSuccessful = func(err error) bool {
			return err == nil || ignore(err)
		}
	}
}

// New returns a breaker that opens after three consecutive failures and
// probes again after openTimeout. State changes are logged as errors.
func New(name string, openTimeout time.Duration, logger *slog.Logger, opts ...Option) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailuresToTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Error("circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}
	for _, opt := range opts {
		opt(&settings)
	}
	return gobreaker.NewCircuitBreaker(settings)
}

// IsOpen reports whether err was produced by a breaker refusing the call.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
