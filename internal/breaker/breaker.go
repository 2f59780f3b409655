// Package breaker wraps remote calls in a sony/gobreaker circuit breaker.
// A tripped breaker fails calls immediately until its cooldown expires; it
// never retries on its own.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	// DefaultThreshold is the number of consecutive failures that opens the breaker.
	DefaultThreshold = 5
	// DefaultCooldown is how long an open breaker rejects calls.
	DefaultCooldown = 30 * time.Second
)

// Settings configures a breaker.
type Settings struct {
	Name      string
	Threshold uint32
	Cooldown  time.Duration
	// Ignore lists local errors, such as a missing credential, that pass
	// through without counting as failures of the remote service.
	Ignore []error
}

// New creates a breaker named name with the default thresholds. Errors
// matching ignore are not counted as failures.
func New(name string, logger *zap.SugaredLogger, ignore ...error) *gobreaker.CircuitBreaker {
	return NewWithSettings(Settings{Name: name, Ignore: ignore}, logger)
}

// NewWithSettings creates a breaker from explicit settings. Zero values fall
// back to the defaults.
func NewWithSettings(s Settings, logger *zap.SugaredLogger) *gobreaker.CircuitBreaker {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	threshold := s.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	cooldown := s.Cooldown
	if cooldown == 0 {
		cooldown = DefaultCooldown
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err, s.Ignore)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// countsAsFailure reports whether err says something about the remote
// service. Cancellation by the caller and ignored local errors do not.
func countsAsFailure(err error, ignore []error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	for _, target := range ignore {
		if errors.Is(err, target) {
			return false
		}
	}
	return true
}

// Do runs fn through cb and returns its typed result.
func Do[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	v, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	res, _ := v.(T)
	return res, nil
}
