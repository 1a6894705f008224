package lazy

import (
	"context"
	"fmt"
	"sync"

	"github.com/vyrodovalexey/routable/internal/match"
	"github.com/vyrodovalexey/routable/internal/observability"
	"github.com/vyrodovalexey/routable/internal/registry"
	"github.com/vyrodovalexey/routable/internal/route"
	"github.com/vyrodovalexey/routable/internal/routetable"
	"github.com/vyrodovalexey/routable/internal/util"
)

// LoadFunc registers the controllers of a module.
type LoadFunc func(ctx context.Context, reg *registry.Registry) error

// Module is a lazily declared routable module.
type Module struct {
	Name   string
	Match  []match.Expression
	Target match.Target
	Load   LoadFunc
}

type pending struct {
	Module
	expr   match.Expression
	loaded bool
}

// Loader hydrates pending modules. It is safe for concurrent use; loads
// are serialized so each module loads at most once.
type Loader struct {
	mu      sync.Mutex
	reg     *registry.Registry
	index   *routetable.Index
	opts    match.Options
	modules []*pending
	logger  observability.Logger
	metrics *observability.Metrics
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(l *Loader) {
		l.metrics = metrics
	}
}

// WithMatchOptions sets the process-wide match options.
func WithMatchOptions(opts match.Options) Option {
	return func(l *Loader) {
		l.opts = opts
	}
}

// NewLoader creates a loader registering modules into reg.
func NewLoader(reg *registry.Registry, index *routetable.Index, opts ...Option) *Loader {
	l := &Loader{
		reg:    reg,
		index:  index,
		logger: observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Declare adds a pending module.
func (l *Loader) Declare(m Module) error {
	switch {
	case m.Name == "":
		return util.NewConfigError("lazy.name", "module name is required")
	case m.Load == nil:
		return util.NewConfigError("lazy."+m.Name, "module loader is required")
	case len(m.Match) == 0:
		return util.NewConfigError("lazy."+m.Name, "module match expression is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range l.modules {
		if p.Name == m.Name {
			return util.NewConfigError("lazy."+m.Name, "module already declared")
		}
	}
	l.modules = append(l.modules, &pending{Module: m, expr: match.Any(m.Match...)})
	return nil
}

// Hydrate loads every pending module whose expression matches the chain of
// to, in declaration order, and returns how many were loaded. A module
// whose loader fails stays pending and the error is returned; modules
// after it are not attempted.
func (l *Loader) Hydrate(ctx context.Context, to route.Location) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	loaded := 0
	for _, p := range l.modules {
		if p.loaded {
			continue
		}
		if !l.index.ChainMatches(to, p.expr, l.opts.WithTarget(p.Target)) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return loaded, err
		}

		if err := p.Load(ctx, l.reg); err != nil {
			l.logger.Error("lazy module failed to load",
				observability.String("module", p.Name),
				observability.String("to", to.Name),
				observability.Error(err),
			)
			return loaded, fmt.Errorf("loading module %s: %w", p.Name, err)
		}

		p.loaded = true
		loaded++
		if l.metrics != nil {
			l.metrics.RecordLazyModuleLoaded()
		}
		l.logger.Debug("lazy module loaded",
			observability.String("module", p.Name),
			observability.String("to", to.Name),
		)
	}
	return loaded, nil
}

// Pending returns the names of modules not loaded yet.
func (l *Loader) Pending() []string {
	return l.names(false)
}

// Loaded returns the names of loaded modules.
func (l *Loader) Loaded() []string {
	return l.names(true)
}

func (l *Loader) names(loaded bool) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []string
	for _, p := range l.modules {
		if p.loaded == loaded {
			out = append(out, p.Name)
		}
	}
	return out
}
