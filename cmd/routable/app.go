package main

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/vyrodovalexey/routable/internal/config"
	"github.com/vyrodovalexey/routable/internal/dispatch"
	"github.com/vyrodovalexey/routable/internal/host"
	"github.com/vyrodovalexey/routable/internal/inspect"
	"github.com/vyrodovalexey/routable/internal/lazy"
	"github.com/vyrodovalexey/routable/internal/match"
	"github.com/vyrodovalexey/routable/internal/observability"
	"github.com/vyrodovalexey/routable/internal/registry"
	"github.com/vyrodovalexey/routable/internal/route"
)

// application holds the simulator components.
type application struct {
	config   *config.Config
	logger   observability.Logger
	metrics  *observability.Metrics
	tracer   *observability.Tracer
	timeline *inspect.Timeline
	registry *registry.Registry
	router   *host.MemoryRouter
	engine   *host.Engine

	mu     sync.Mutex
	probes map[string]*probe

	metricsServer *http.Server
}

// replayResult is the outcome of one replayed navigation.
type replayResult struct {
	Target  string `json:"target"`
	Current string `json:"current"`
	Changed bool   `json:"changed"`
	Error   string `json:"error,omitempty"`
}

// initApplication builds the route table, the probe controllers and the
// dispatcher from cfg.
func initApplication(cfg *config.Config, logger observability.Logger) (*application, error) {
	policy, ok := dispatch.ParseErrorPolicy(cfg.Routing.ErrorPolicy)
	if !ok {
		return nil, fmt.Errorf("unknown error policy %q", cfg.Routing.ErrorPolicy)
	}

	tracer, err := initTracer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	app := &application{
		config:   cfg,
		logger:   logger,
		metrics:  observability.NewMetrics(cfg.Observability.Metrics.Namespace),
		tracer:   tracer,
		timeline: inspect.NewTimeline(cfg.Routing.TimelineCapacity),
		registry: registry.New(),
		probes:   make(map[string]*probe),
	}

	eager, modules, fresh, err := app.declareProbes(cfg.Controllers)
	if err != nil {
		return nil, err
	}
	if err := host.RegisterRoutableClasses(app.registry, eager...); err != nil {
		return nil, err
	}
	app.commitProbes(fresh)

	app.router, err = host.NewMemoryRouter(cfg.Routes)
	if err != nil {
		return nil, fmt.Errorf("failed to build routes: %w", err)
	}

	app.engine, err = host.RegisterRouter(app.router, app.registry, host.Options{
		DefaultMatchTarget:      match.Target(cfg.Routing.DefaultMatchTarget),
		RouteNameChainSeparator: cfg.Routing.RouteNameChainSeparator,
		ErrorPolicy:             policy,
		SerialNavigations:       cfg.Routing.SerialNavigations,
		Modules:                 modules,
		Logger:                  logger,
		Metrics:                 app.metrics,
		Tracer:                  tracer,
		Timeline:                app.timeline,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("simulator initialized",
		observability.Int("routes", app.engine.Index().Len()),
		observability.Int("controllers", len(app.probes)),
		observability.Int("lazy_modules", len(modules)),
		observability.Int("navigations", len(cfg.Navigations)),
	)
	return app, nil
}

func initTracer(cfg *config.Config) (*observability.Tracer, error) {
	t := cfg.Observability.Tracing
	return observability.NewTracer(observability.TracerConfig{
		ServiceName:  t.ServiceName,
		OTLPEndpoint: t.OTLPEndpoint,
		SamplingRate: t.SamplingRate,
		Enabled:      t.Enabled,
	})
}

// declareProbes builds probes for controllers not declared yet. Lazy
// probes become modules. The probes are returned uncommitted; see
// commitProbes.
func (a *application) declareProbes(
	controllers []config.ControllerConfig,
) ([]func(*registry.Registry) error, []lazy.Module, map[string]*probe, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var (
		eager   []func(*registry.Registry) error
		modules []lazy.Module
	)
	fresh := make(map[string]*probe)
	for _, c := range controllers {
		if _, exists := a.probes[c.Name]; exists {
			continue
		}
		if _, exists := fresh[c.Name]; exists {
			continue
		}

		p := newProbe(c, a.logger)
		decl, err := p.declare()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("controller %s: %w", c.Name, err)
		}

		if !c.Lazy {
			fresh[c.Name] = p
			eager = append(eager, decl)
			continue
		}
		exprs, err := match.CompileAll(c.Match)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("controller %s: %w", c.Name, err)
		}
		fresh[c.Name] = p
		modules = append(modules, lazy.Module{
			Name:   c.Name,
			Match:  exprs,
			Target: match.Target(c.Target),
			Load: func(_ context.Context, reg *registry.Registry) error {
				return decl(reg)
			},
		})
	}
	return eager, modules, fresh, nil
}

// commitProbes records declared probes so later reloads skip them.
func (a *application) commitProbes(fresh map[string]*probe) {
	a.mu.Lock()
	defer a.mu.Unlock()
	maps.Copy(a.probes, fresh)
}

// probe returns the probe declared for a controller name.
func (a *application) probe(name string) (*probe, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.probes[name]
	return p, ok
}

// replay pushes every configured navigation in order.
func (a *application) replay(ctx context.Context) []replayResult {
	navs := a.config.Navigations
	interval := a.config.ReplayInterval.Duration()

	results := make([]replayResult, 0, len(navs))
	for i, nav := range navs {
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(interval):
			}
		}

		target := nav.Target()
		changed, err := a.router.Push(ctx, target)
		res := replayResult{
			Target:  target.String(),
			Current: locationLabel(a.router.Current()),
			Changed: changed,
		}
		if err != nil {
			res.Error = err.Error()
			a.logger.Error("navigation failed",
				observability.String("target", res.Target),
				observability.Error(err),
			)
		} else {
			a.logger.Info("navigation replayed",
				observability.String("target", res.Target),
				observability.String("current", res.Current),
				observability.Bool("changed", changed),
			)
		}
		results = append(results, res)
	}
	return results
}

// reload applies a changed configuration: the route table is rebuilt and
// new controllers are declared. Existing controllers stay registered.
func (a *application) reload(cfg *config.Config) error {
	if err := a.router.SetRoutes(cfg.Routes); err != nil {
		return err
	}
	if err := a.engine.Reload(cfg.Routes); err != nil {
		return err
	}

	eager, modules, fresh, err := a.declareProbes(cfg.Controllers)
	if err != nil {
		return err
	}
	if err := host.RegisterRoutableClasses(a.registry, eager...); err != nil {
		return err
	}
	for _, m := range modules {
		if err := a.engine.Loader().Declare(m); err != nil {
			return err
		}
	}
	a.commitProbes(fresh)

	a.config = cfg
	a.logger.Info("configuration applied",
		observability.Int("routes", a.engine.Index().Len()),
		observability.Int("new_controllers", len(eager)+len(modules)),
	)
	return nil
}

func locationLabel(loc route.Location) string {
	if loc.Name != "" {
		return loc.Name
	}
	return loc.Path
}
