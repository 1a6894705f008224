package main

import (
	"context"
	"errors"
	"sync"

	"github.com/vyrodovalexey/routable/internal/config"
	"github.com/vyrodovalexey/routable/internal/lifecycle"
	"github.com/vyrodovalexey/routable/internal/match"
	"github.com/vyrodovalexey/routable/internal/observability"
	"github.com/vyrodovalexey/routable/internal/params"
	"github.com/vyrodovalexey/routable/internal/registry"
)

// probe is a controller whose callbacks behave as configured and record
// each invocation.
type probe struct {
	name   string
	cfg    config.ControllerConfig
	logger observability.Logger

	mu    sync.Mutex
	calls []string
}

func newProbe(cfg config.ControllerConfig, logger observability.Logger) *probe {
	return &probe{
		name:   cfg.Name,
		cfg:    cfg,
		logger: logger.With(observability.String("controller", cfg.Name)),
	}
}

// GuardEnter runs when a navigation enters the probe's routes.
func (p *probe) GuardEnter(ctx context.Context, to, from string) (lifecycle.Outcome, error) {
	return p.run(ctx, "guardEnter", p.cfg.GuardEnter, to, from)
}

// GuardLeave runs when a navigation leaves the probe's routes.
func (p *probe) GuardLeave(ctx context.Context, to, from string) (lifecycle.Outcome, error) {
	return p.run(ctx, "guardLeave", p.cfg.GuardLeave, to, from)
}

// Activate runs when the probe's routes become active.
func (p *probe) Activate(ctx context.Context, to, from string) (lifecycle.Outcome, error) {
	return p.run(ctx, "activate", p.cfg.Activate, to, from)
}

// Deactivate runs when the probe's routes stop being active.
func (p *probe) Deactivate(ctx context.Context, to, from string) (lifecycle.Outcome, error) {
	return p.run(ctx, "deactivate", p.cfg.Deactivate, to, from)
}

// Update runs when only params or query change.
func (p *probe) Update(ctx context.Context, to, from string) (lifecycle.Outcome, error) {
	return p.run(ctx, "update", p.cfg.Update, to, from)
}

// Watch observes matching navigations.
func (p *probe) Watch(ctx context.Context, to, from string) error {
	p.record(ctx, "watch", to, from)
	return nil
}

func (p *probe) run(ctx context.Context, hook string, h *config.HookConfig, to, from string) (lifecycle.Outcome, error) {
	p.record(ctx, hook, to, from)
	if h == nil {
		return lifecycle.Allow(), nil
	}
	if msg, failing := h.Failure(); failing {
		return lifecycle.Outcome{}, errors.New(msg)
	}
	return h.Outcome()
}

func (p *probe) record(ctx context.Context, hook, to, from string) {
	p.mu.Lock()
	p.calls = append(p.calls, hook)
	p.mu.Unlock()

	p.logger.WithContext(ctx).Info("probe callback",
		observability.String("hook", hook),
		observability.String("from", from),
		observability.String("to", to),
	)
}

// Calls returns the recorded callbacks in order.
func (p *probe) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// declare returns the declaration of the probe against a registry.
func (p *probe) declare() (func(*registry.Registry) error, error) {
	routes, err := match.CompileAll(p.cfg.Match)
	if err != nil {
		return nil, err
	}

	watches := make([]registry.WatchOptions, 0, len(p.cfg.Watchers))
	for _, w := range p.cfg.Watchers {
		exprs, err := match.CompileAll(w.Match)
		if err != nil {
			return nil, err
		}
		on := make([]registry.Event, 0, len(w.On))
		for _, e := range w.On {
			on = append(on, registry.Event(e))
		}
		watches = append(watches, registry.WatchOptions{
			Priority: w.Priority,
			On:       on,
			Match:    exprs,
		})
	}

	args := []params.Spec{params.To("name"), params.From("name")}

	return func(reg *registry.Registry) error {
		b := registry.Declare(reg, p).
			Class(p.name).
			Routes(routes...).
			Target(match.Target(p.cfg.Target))

		hooks := []struct {
			h   *config.HookConfig
			add func(handler string, priority int, args ...params.Spec) *registry.Builder
			fn  string
		}{
			{p.cfg.GuardEnter, b.GuardEnter, "GuardEnter"},
			{p.cfg.GuardLeave, b.GuardLeave, "GuardLeave"},
			{p.cfg.Activate, b.Activated, "Activate"},
			{p.cfg.Deactivate, b.Deactivated, "Deactivate"},
			{p.cfg.Update, b.Updated, "Update"},
		}
		for _, hk := range hooks {
			if hk.h != nil {
				hk.add(hk.fn, hk.h.Priority, args...)
			}
		}
		for _, opts := range watches {
			b.Watch("Watch", opts, args...)
		}

		_, err := b.Build()
		return err
	}, nil
}
