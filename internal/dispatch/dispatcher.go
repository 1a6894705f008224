package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/vyrodovalexey/routable/internal/inspect"
	"github.com/vyrodovalexey/routable/internal/lifecycle"
	"github.com/vyrodovalexey/routable/internal/match"
	"github.com/vyrodovalexey/routable/internal/observability"
	"github.com/vyrodovalexey/routable/internal/params"
	"github.com/vyrodovalexey/routable/internal/registry"
	"github.com/vyrodovalexey/routable/internal/route"
	"github.com/vyrodovalexey/routable/internal/routetable"
	"github.com/vyrodovalexey/routable/internal/util"
)

// Dispatcher runs navigation lifecycles against a registry.
type Dispatcher struct {
	reg       *registry.Registry
	index     *routetable.Index
	resolver  *params.Resolver
	matchOpts match.Options
	policy    ErrorPolicy
	serial    *semaphore.Weighted
	loader    Hydrator
	timeline  *inspect.Timeline
	logger    observability.Logger
	metrics   *observability.Metrics
	tracer    *observability.Tracer
	newID     func() string
}

// New creates a dispatcher over reg using index for chain matching.
func New(reg *registry.Registry, index *routetable.Index, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		reg:      reg,
		index:    index,
		resolver: params.NewResolver(reg),
		logger:   observability.NopLogger(),
		tracer:   observability.NopTracer(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Policy returns the callback error policy.
func (d *Dispatcher) Policy() ErrorPolicy {
	return d.policy
}

// Navigate dispatches the navigation from -> to and returns its outcome:
// Allow, Deny or a redirect.
func (d *Dispatcher) Navigate(ctx context.Context, to, from route.Location) (lifecycle.Outcome, error) {
	if d.serial != nil {
		if err := d.serial.Acquire(ctx, 1); err != nil {
			return lifecycle.Outcome{}, err
		}
		defer d.serial.Release(1)
	}

	start := time.Now()
	navID := d.newID()
	ctx = util.ContextWithNavigationID(ctx, navID)
	ctx = util.ContextWithStartTime(ctx, start)

	ctx, span := d.tracer.StartSpan(ctx, "routable.navigate",
		trace.WithAttributes(
			attribute.String("routable.from", label(from)),
			attribute.String("routable.to", label(to)),
		),
	)
	defer span.End()

	logger := d.logger.WithContext(ctx).With(
		observability.String("from", label(from)),
		observability.String("to", label(to)),
	)
	logger.Debug("navigation started")

	n := &navigation{
		d:      d,
		id:     navID,
		to:     to,
		from:   from,
		logger: logger,
		pm:     newPhaseMachine(logger, span),
	}

	outcome, err := n.run(ctx)
	elapsed := time.Since(start)

	result := outcomeLabel(outcome, err)
	span.SetAttributes(attribute.String("routable.outcome", result))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug("navigation failed", observability.Error(err), observability.Duration("duration", elapsed))
	} else {
		logger.Debug("navigation finished",
			observability.String("outcome", outcome.String()),
			observability.Duration("duration", elapsed),
		)
	}

	if d.metrics != nil {
		d.metrics.RecordNavigation(result, elapsed)
	}
	if d.timeline != nil {
		ev := inspect.Event{
			Kind:         inspect.KindNavigation,
			NavigationID: navID,
			From:         label(from),
			To:           label(to),
			Outcome:      result,
			Duration:     elapsed,
		}
		if err != nil {
			ev.Error = err.Error()
		}
		d.timeline.Record(ev)
	}

	return outcome, err
}

// navigation is the state of one Navigate call.
type navigation struct {
	d      *Dispatcher
	id     string
	to     route.Location
	from   route.Location
	logger observability.Logger
	pm     *phaseMachine
}

func (n *navigation) run(ctx context.Context) (lifecycle.Outcome, error) {
	outcome, err := n.runPhases(ctx)
	if err != nil {
		if n.pm.Current() != StateDone {
			_ = n.pm.fire(ctx, EventAbort)
		}
		return lifecycle.Outcome{}, err
	}
	return outcome, nil
}

func (n *navigation) runPhases(ctx context.Context) (lifecycle.Outcome, error) {
	if err := n.pm.fire(ctx, EventHydrate); err != nil {
		return lifecycle.Outcome{}, err
	}
	if n.d.loader != nil {
		if _, err := n.d.loader.Hydrate(ctx, n.to); err != nil {
			return lifecycle.Outcome{}, err
		}
	}

	p := n.d.collect(n.to, n.from)

	if err := n.pm.fire(ctx, EventGuard); err != nil {
		return lifecycle.Outcome{}, err
	}
	outcome, err := n.runSequence(ctx, p.guards)
	if err != nil {
		return lifecycle.Outcome{}, err
	}

	if outcome.Proceeds() {
		if err := n.pm.fire(ctx, EventHandle); err != nil {
			return lifecycle.Outcome{}, err
		}
		outcome, err = n.runSequence(ctx, p.handlers)
		if err != nil {
			return lifecycle.Outcome{}, err
		}
		if outcome.Proceeds() {
			n.applySilent(p.silent)
		}
	}

	event := EventWatch
	if !outcome.Proceeds() {
		event = EventBlock
		n.logger.Info("navigation blocked", observability.String("outcome", outcome.String()))
	}
	if err := n.pm.fire(ctx, event); err != nil {
		return lifecycle.Outcome{}, err
	}

	if err := n.runWatchers(ctx, p.watchers); err != nil {
		return lifecycle.Outcome{}, err
	}

	if err := n.pm.fire(ctx, EventFinish); err != nil {
		return lifecycle.Outcome{}, err
	}
	return outcome, nil
}

// runSequence runs guards or handlers in order and stops at the first
// outcome that does not proceed.
func (n *navigation) runSequence(ctx context.Context, list []candidate) (lifecycle.Outcome, error) {
	for _, c := range list {
		outcome, err := n.invoke(ctx, c)
		if err != nil {
			if n.tolerate(err, c) {
				continue
			}
			return lifecycle.Outcome{}, err
		}

		if !outcome.Proceeds() {
			n.logger.Info("lifecycle callback stopped navigation",
				observability.String("class", c.class),
				observability.String("handler", c.handler),
				observability.String("phase", string(c.phase)),
				observability.String("outcome", outcome.String()),
			)
			return outcome, nil
		}

		switch c.phase {
		case PhaseActivate:
			n.setActive(c.id, c.class, c.cfg, true)
		case PhaseDeactivate:
			n.setActive(c.id, c.class, c.cfg, false)
		}
	}
	return lifecycle.Allow(), nil
}

func (n *navigation) runWatchers(ctx context.Context, list []candidate) error {
	for _, c := range list {
		if _, err := n.invoke(ctx, c); err != nil {
			if n.tolerate(err, c) {
				continue
			}
			return err
		}
	}
	return nil
}

func (n *navigation) applySilent(list []transition) {
	for _, t := range list {
		n.setActive(t.id, t.class, t.cfg, t.entering)
	}
}

func (n *navigation) setActive(id registry.Identity, class string, cfg *registry.Config, active bool) {
	cfg.SetActive(active)
	if n.d.timeline == nil {
		return
	}
	if active {
		n.d.timeline.Activated(string(id), class, label(n.to))
	} else {
		n.d.timeline.Deactivated(string(id), class)
	}
}

// invoke runs one callback with resolved arguments and normalizes its
// outcome. Watchers always yield Allow on success.
func (n *navigation) invoke(ctx context.Context, c candidate) (lifecycle.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return lifecycle.Outcome{}, err
	}

	args := n.d.resolver.Resolve(string(c.id), c.handler, n.to, n.from)

	cctx, span := n.d.tracer.StartSpan(ctx, "routable."+string(c.phase),
		trace.WithAttributes(
			attribute.String("routable.class", c.class),
			attribute.String("routable.handler", c.handler),
		),
	)
	defer span.End()
	cctx = util.ContextWithPhase(cctx, string(c.phase))

	start := time.Now()
	outcome, err := c.method.Call(cctx, args)
	if err == nil {
		if c.phase == PhaseWatch {
			outcome = lifecycle.Allow()
		} else {
			outcome, err = lifecycle.Normalize(outcome, c.class, c.handler)
		}
	}
	elapsed := time.Since(start)

	result := outcome.Kind().String()
	if err != nil {
		err = util.NewHandlerError(string(c.phase), c.class, c.handler, err)
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("routable.outcome", result))

	if n.d.metrics != nil {
		n.d.metrics.RecordCallback(string(c.phase), result, elapsed)
	}
	if n.d.timeline != nil {
		ev := inspect.Event{
			Kind:         inspect.KindHook,
			NavigationID: n.id,
			Identity:     string(c.id),
			Class:        c.class,
			Hook:         c.handler,
			Phase:        string(c.phase),
			From:         label(n.from),
			To:           label(n.to),
			Outcome:      result,
			Duration:     elapsed,
		}
		if err != nil {
			ev.Error = err.Error()
		}
		n.d.timeline.Record(ev)
	}

	return outcome, err
}

// tolerate reports whether a failed callback may be skipped under the
// configured policy, logging it if so.
func (n *navigation) tolerate(err error, c candidate) bool {
	if n.d.policy != PolicyLogAndContinue || fatal(err) {
		return false
	}
	n.logger.Error("lifecycle callback failed",
		observability.String("class", c.class),
		observability.String("handler", c.handler),
		observability.String("phase", string(c.phase)),
		observability.Error(err),
	)
	return true
}

// fatal reports errors that abort a navigation under every policy.
func fatal(err error) bool {
	return util.IsConfigError(err) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func outcomeLabel(o lifecycle.Outcome, err error) string {
	if err != nil {
		return "error"
	}
	return o.Kind().String()
}

// label names a location in logs, spans and metrics.
func label(loc route.Location) string {
	if loc.Name != "" {
		return loc.Name
	}
	return loc.Path
}
