package registry

import (
	"errors"
	"fmt"

	"github.com/vyrodovalexey/routable/internal/lifecycle"
	"github.com/vyrodovalexey/routable/internal/match"
	"github.com/vyrodovalexey/routable/internal/params"
	"github.com/vyrodovalexey/routable/internal/route"
	"github.com/vyrodovalexey/routable/internal/util"
)

// WatchOptions configures a watcher declaration.
type WatchOptions struct {
	Priority int
	On       []Event

	// Match restricts the watcher. An empty list means no restriction
	// beyond the controller's active routes.
	Match []match.Expression
}

type handlerDecl struct {
	field    string
	handler  string
	priority int
	args     []params.Spec
}

type watcherDecl struct {
	handler string
	opts    WatchOptions
	args    []params.Spec
}

// Builder declares the routable configuration of one controller.
type Builder struct {
	reg *Registry
	obj any

	class    string
	routes   []match.Expression
	target   match.Target
	matcher  func(route.Location) bool
	handlers map[string]*handlerDecl
	order    []string
	watchers []watcherDecl
}

// Declare starts a declaration for obj.
func Declare(reg *Registry, obj any) *Builder {
	return &Builder{
		reg:      reg,
		obj:      obj,
		handlers: make(map[string]*handlerDecl),
	}
}

// Class overrides the class label. It defaults to the controller type name.
func (b *Builder) Class(name string) *Builder {
	b.class = name
	return b
}

// Routes appends active route expressions.
func (b *Builder) Routes(exprs ...match.Expression) *Builder {
	b.routes = append(b.routes, exprs...)
	return b
}

// Target overrides the match target of the active routes.
func (b *Builder) Target(t match.Target) *Builder {
	b.target = t
	return b
}

// Matcher sets a custom route matcher.
func (b *Builder) Matcher(fn func(route.Location) bool) *Builder {
	b.matcher = fn
	return b
}

// Activated declares the handler run when a navigation enters the routes.
func (b *Builder) Activated(handler string, priority int, args ...params.Spec) *Builder {
	return b.phase("activate", handler, priority, args)
}

// Deactivated declares the handler run when a navigation leaves the routes.
func (b *Builder) Deactivated(handler string, priority int, args ...params.Spec) *Builder {
	return b.phase("deactivate", handler, priority, args)
}

// Updated declares the handler run when params or query of the current
// route change.
func (b *Builder) Updated(handler string, priority int, args ...params.Spec) *Builder {
	return b.phase("update", handler, priority, args)
}

// GuardEnter declares the guard run before entering the routes.
func (b *Builder) GuardEnter(handler string, priority int, args ...params.Spec) *Builder {
	return b.phase("guardEnter", handler, priority, args)
}

// GuardLeave declares the guard run before leaving the routes.
func (b *Builder) GuardLeave(handler string, priority int, args ...params.Spec) *Builder {
	return b.phase("guardLeave", handler, priority, args)
}

// Watch declares a watcher.
func (b *Builder) Watch(handler string, opts WatchOptions, args ...params.Spec) *Builder {
	b.watchers = append(b.watchers, watcherDecl{handler: handler, opts: opts, args: args})
	return b
}

func (b *Builder) phase(field, handler string, priority int, args []params.Spec) *Builder {
	if _, ok := b.handlers[field]; !ok {
		b.order = append(b.order, field)
	}
	b.handlers[field] = &handlerDecl{field: field, handler: handler, priority: priority, args: args}
	return b
}

// Build validates the declaration, registers the controller and stores its
// configuration. Every problem found is reported in a single
// *util.ValidationError; nothing is stored in that case.
func (b *Builder) Build() (Identity, error) {
	if b.reg == nil {
		return "", util.NewConfigError("registry", "registry is nil")
	}

	cfg := &Config{
		Class:        b.class,
		ActiveRoutes: b.routes,
		MatchTarget:  b.target,
		RouteMatcher: b.matcher,
	}
	if cfg.Class == "" {
		cfg.Class = lifecycle.ClassOf(b.obj)
	}

	verr := util.NewValidationError(fmt.Sprintf("invalid routable declaration for %s", cfg.Class))
	paramSets := make(map[string][]params.Spec)

	for i, expr := range b.routes {
		if expr == nil {
			verr.AddField(fmt.Sprintf("routes[%d]", i), "expression is nil")
		}
	}

	for _, field := range b.order {
		decl := b.handlers[field]
		method, err := b.bind(decl.handler, decl.args)
		if err != nil {
			verr.AddField(field, err.Error())
			continue
		}
		hc := &HandlerConfig{Handler: decl.handler, Priority: decl.priority, method: method}
		b.assign(cfg, field, hc)
		if err := mergeParams(paramSets, decl.handler, decl.args); err != nil {
			verr.AddField(field, err.Error())
		}
	}

	for i, decl := range b.watchers {
		field := fmt.Sprintf("watchers[%d]", i)
		method, err := b.bind(decl.handler, decl.args)
		if err != nil {
			verr.AddField(field, err.Error())
			continue
		}
		if method.Shape() != lifecycle.ShapeError {
			verr.AddField(field, "watcher must return error only")
			continue
		}
		for _, e := range decl.opts.On {
			if !e.Valid() {
				verr.AddField(field, fmt.Sprintf("unknown event %q", e))
			}
		}
		w := Watcher{
			Handler:  decl.handler,
			Priority: decl.opts.Priority,
			On:       decl.opts.On,
			method:   method,
		}
		if len(decl.opts.Match) > 0 {
			w.Match = match.Any(decl.opts.Match...)
		}
		cfg.Watchers = append(cfg.Watchers, w)
		if err := mergeParams(paramSets, decl.handler, decl.args); err != nil {
			verr.AddField(field, err.Error())
		}
	}

	if verr.HasErrors() {
		return "", verr
	}

	id, err := b.reg.Register(b.obj)
	if err != nil {
		return "", err
	}

	if err := b.reg.replaceParamMetadata(id, paramSets); err != nil {
		return "", err
	}

	b.reg.storeConfig(id, cfg)
	return id, nil
}

func (b *Builder) bind(handler string, args []params.Spec) (lifecycle.Method, error) {
	method, err := lifecycle.Bind(b.obj, handler)
	if err != nil {
		return lifecycle.Method{}, err
	}
	if len(args) > method.Arity() {
		return lifecycle.Method{}, fmt.Errorf("%d parameters declared but %s accepts %d",
			len(args), handler, method.Arity())
	}
	for i, spec := range args {
		if !spec.IsZero() && !spec.Valid() {
			return lifecycle.Method{}, fmt.Errorf("parameter %d has invalid source %q", i, spec.Tag)
		}
	}
	return method, nil
}

func (b *Builder) assign(cfg *Config, field string, hc *HandlerConfig) {
	switch field {
	case "activate":
		cfg.Activate = hc
	case "deactivate":
		cfg.Deactivate = hc
	case "update":
		cfg.Update = hc
	case "guardEnter":
		cfg.GuardEnter = hc
	case "guardLeave":
		cfg.GuardLeave = hc
	}
}

var errConflictingParams = errors.New("conflicting parameter declarations")

// mergeParams records the specs of a handler shared by several phases. The
// same handler must always resolve the same arguments.
func mergeParams(sets map[string][]params.Spec, handler string, args []params.Spec) error {
	existing, ok := sets[handler]
	if !ok {
		sets[handler] = args
		return nil
	}
	if len(args) == 0 {
		return nil
	}
	if len(existing) == 0 {
		sets[handler] = args
		return nil
	}
	if len(existing) != len(args) {
		return fmt.Errorf("%w for %s", errConflictingParams, handler)
	}
	for i := range args {
		if existing[i] != args[i] {
			return fmt.Errorf("%w for %s", errConflictingParams, handler)
		}
	}
	return nil
}

// storeConfig replaces the config of id, keeping its active state.
func (r *Registry) storeConfig(id Identity, cfg *Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.configs[id]; ok {
		cfg.SetActive(prev.IsActive())
	}
	r.configs[id] = cfg
}
