package dispatch

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/vyrodovalexey/routable/internal/inspect"
	"github.com/vyrodovalexey/routable/internal/match"
	"github.com/vyrodovalexey/routable/internal/observability"
	"github.com/vyrodovalexey/routable/internal/route"
)

// ErrorPolicy decides what happens when a callback returns an error.
type ErrorPolicy int

const (
	// PolicyPropagate aborts the navigation and returns the error.
	PolicyPropagate ErrorPolicy = iota
	// PolicyLogAndContinue logs the error and treats the callback as allow.
	PolicyLogAndContinue
)

// String returns the policy name used in configuration.
func (p ErrorPolicy) String() string {
	switch p {
	case PolicyLogAndContinue:
		return "log"
	default:
		return "propagate"
	}
}

// ParseErrorPolicy maps a configuration value to a policy. Empty means
// PolicyPropagate.
func ParseErrorPolicy(s string) (ErrorPolicy, bool) {
	switch s {
	case "", "propagate":
		return PolicyPropagate, true
	case "log", "log-and-continue":
		return PolicyLogAndContinue, true
	default:
		return PolicyPropagate, false
	}
}

// Hydrator loads lazily declared modules before dispatch.
type Hydrator interface {
	Hydrate(ctx context.Context, to route.Location) (int, error)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = metrics
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer *observability.Tracer) Option {
	return func(d *Dispatcher) {
		if tracer != nil {
			d.tracer = tracer
		}
	}
}

// WithErrorPolicy sets the callback error policy.
func WithErrorPolicy(policy ErrorPolicy) Option {
	return func(d *Dispatcher) {
		d.policy = policy
	}
}

// WithSerialNavigations makes overlapping navigations wait for each other.
func WithSerialNavigations() Option {
	return func(d *Dispatcher) {
		d.serial = semaphore.NewWeighted(1)
	}
}

// WithLoader sets the lazy module hydrator.
func WithLoader(loader Hydrator) Option {
	return func(d *Dispatcher) {
		d.loader = loader
	}
}

// WithTimeline records callbacks and activations into tl.
func WithTimeline(tl *inspect.Timeline) Option {
	return func(d *Dispatcher) {
		d.timeline = tl
	}
}

// WithMatchOptions sets the process-wide match target. The route table
// index always resolves name chains.
func WithMatchOptions(opts match.Options) Option {
	return func(d *Dispatcher) {
		d.matchOpts = opts
	}
}
