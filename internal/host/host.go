package host

import (
	"context"
	"fmt"

	"github.com/vyrodovalexey/routable/internal/dispatch"
	"github.com/vyrodovalexey/routable/internal/inspect"
	"github.com/vyrodovalexey/routable/internal/lazy"
	"github.com/vyrodovalexey/routable/internal/lifecycle"
	"github.com/vyrodovalexey/routable/internal/match"
	"github.com/vyrodovalexey/routable/internal/observability"
	"github.com/vyrodovalexey/routable/internal/registry"
	"github.com/vyrodovalexey/routable/internal/route"
	"github.com/vyrodovalexey/routable/internal/routetable"
	"github.com/vyrodovalexey/routable/internal/util"
)

// Hook is a pre-navigation callback. A non-allow outcome cancels or
// redirects the navigation.
type Hook func(ctx context.Context, to, from route.Location) (lifecycle.Outcome, error)

// Router is the contract a host router fulfils.
type Router interface {
	// Routes returns the static route tree.
	Routes() []route.Record

	// BeforeEach installs a pre-navigation hook.
	BeforeEach(hook Hook)
}

// Options configures RegisterRouter.
type Options struct {
	// DefaultMatchTarget is the target of expressions without one:
	// name, path, name-chain or a field path. Empty means name.
	DefaultMatchTarget match.Target

	// RouteNameChainSeparator joins ancestor names. Empty means ".".
	RouteNameChainSeparator string

	ErrorPolicy       dispatch.ErrorPolicy
	SerialNavigations bool

	// Modules are lazily loaded before matching navigations.
	Modules []lazy.Module

	Logger   observability.Logger
	Metrics  *observability.Metrics
	Tracer   *observability.Tracer
	Timeline *inspect.Timeline
}

// Engine is a router registration: the route table, the dispatcher and the
// lazy loader sharing one registry.
type Engine struct {
	reg        *registry.Registry
	index      *routetable.Index
	loader     *lazy.Loader
	dispatcher *dispatch.Dispatcher
	logger     observability.Logger
}

// RegisterRouter indexes the routes of r and installs the dispatcher as
// its pre-navigation hook.
func RegisterRouter(r Router, reg *registry.Registry, opts Options) (*Engine, error) {
	if r == nil {
		return nil, util.NewConfigError("router", "router is nil")
	}
	if reg == nil {
		reg = registry.New()
	}

	logger := opts.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}

	e := &Engine{
		reg:    reg,
		index:  routetable.New(opts.RouteNameChainSeparator),
		logger: logger,
	}
	if err := e.Reload(r.Routes()); err != nil {
		return nil, err
	}

	matchOpts := match.Options{DefaultTarget: opts.DefaultMatchTarget}

	loaderOpts := []lazy.Option{lazy.WithLogger(logger), lazy.WithMatchOptions(matchOpts)}
	if opts.Metrics != nil {
		loaderOpts = append(loaderOpts, lazy.WithMetrics(opts.Metrics))
	}
	e.loader = lazy.NewLoader(reg, e.index, loaderOpts...)
	for _, m := range opts.Modules {
		if err := e.loader.Declare(m); err != nil {
			return nil, err
		}
	}

	dispatchOpts := []dispatch.Option{
		dispatch.WithLogger(logger),
		dispatch.WithErrorPolicy(opts.ErrorPolicy),
		dispatch.WithMatchOptions(matchOpts),
		dispatch.WithLoader(e.loader),
	}
	if opts.SerialNavigations {
		dispatchOpts = append(dispatchOpts, dispatch.WithSerialNavigations())
	}
	if opts.Metrics != nil {
		dispatchOpts = append(dispatchOpts, dispatch.WithMetrics(opts.Metrics))
	}
	if opts.Tracer != nil {
		dispatchOpts = append(dispatchOpts, dispatch.WithTracer(opts.Tracer))
	}
	if opts.Timeline != nil {
		dispatchOpts = append(dispatchOpts, dispatch.WithTimeline(opts.Timeline))
	}
	e.dispatcher = dispatch.New(reg, e.index, dispatchOpts...)

	r.BeforeEach(e.Navigate)

	target := opts.DefaultMatchTarget
	if target == "" {
		target = match.TargetName
	}
	logger.Info("router registered",
		observability.Int("routes", e.index.Len()),
		observability.String("default_match_target", string(target)),
		observability.String("error_policy", opts.ErrorPolicy.String()),
	)
	return e, nil
}

// Reload rebuilds the route table from routes. The previous table is kept
// if routes are invalid.
func (e *Engine) Reload(routes []route.Record) error {
	if err := e.index.Build(routes); err != nil {
		return err
	}
	for _, r := range e.index.Unnamed() {
		e.logger.Warn("route has no name and never matches by name",
			observability.String("path", r.Path),
		)
	}
	return nil
}

// Navigate is the pre-navigation hook installed on the host router.
func (e *Engine) Navigate(ctx context.Context, to, from route.Location) (lifecycle.Outcome, error) {
	return e.dispatcher.Navigate(ctx, to, from)
}

// RoutableObjectIsActive reports whether obj's routes match loc.
func (e *Engine) RoutableObjectIsActive(loc route.Location, obj any) bool {
	return e.dispatcher.RoutableObjectIsActive(loc, obj)
}

// Registry returns the registry the engine dispatches.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Index returns the route table.
func (e *Engine) Index() *routetable.Index {
	return e.index
}

// Dispatcher returns the dispatcher.
func (e *Engine) Dispatcher() *dispatch.Dispatcher {
	return e.dispatcher
}

// Loader returns the lazy module loader.
func (e *Engine) Loader() *lazy.Loader {
	return e.loader
}

// RegisterRoutableClasses runs declaration funcs against reg in order and
// stops at the first failure.
func RegisterRoutableClasses(reg *registry.Registry, decls ...func(*registry.Registry) error) error {
	if reg == nil {
		return util.NewConfigError("registry", "registry is nil")
	}
	for i, decl := range decls {
		if decl == nil {
			return util.NewConfigError(fmt.Sprintf("classes[%d]", i), "declaration is nil")
		}
		if err := decl(reg); err != nil {
			return fmt.Errorf("routable class %d: %w", i, err)
		}
	}
	return nil
}
