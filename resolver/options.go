// SPDX-License-Identifier: MIT

package resolver

import (
	"log/slog"
	"runtime"
)

// DEFAULTS - single source of truth for zero-value behavior.
const (
	// DefaultMaxFinalStates caps the number of distinct outcomes kept per
	// final-state distribution.
	DefaultMaxFinalStates = 1000

	// DefaultEpsilon is the tolerance used by CheckConsistency and below
	// which a missing branching-ratio residual is ignored.
	DefaultEpsilon = 1e-9
)

// Option configures Resolve.
type Option func(*options)

// options holds the resolved configuration.
type options struct {
	maxFinalStates int
	workers        int
	logger         *slog.Logger
	observer       Observer
}

// defaultOptions returns the documented defaults: DefaultMaxFinalStates,
// one worker per GOMAXPROCS, a discarding logger and a no-op observer.
func defaultOptions() options {
	return options{
		maxFinalStates: DefaultMaxFinalStates,
		workers:        runtime.GOMAXPROCS(0),
		logger:         slog.New(slog.DiscardHandler),
		observer:       nopObserver{},
	}
}

// WithMaxFinalStates sets the cap on distinct final-state outcomes.
// Panics if n < 1.
func WithMaxFinalStates(n int) Option {
	if n < 1 {
		panic("resolver: WithMaxFinalStates requires n >= 1")
	}

	return func(o *options) { o.maxFinalStates = n }
}

// WithWorkers bounds the number of goroutines used for the fan-out over
// outer species. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("resolver: WithWorkers requires n >= 1")
	}

	return func(o *options) { o.workers = n }
}

// WithLogger installs a structured logger. A nil logger has no effect.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver installs a measurement sink. A nil observer has no effect.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}
