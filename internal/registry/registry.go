package registry

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/vyrodovalexey/routable/internal/lifecycle"
	"github.com/vyrodovalexey/routable/internal/params"
	"github.com/vyrodovalexey/routable/internal/util"
)

// Instance is a registered controller.
type Instance struct {
	ID     Identity
	Object any
}

// Registry maps controller identities to configuration and parameter
// metadata. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	identities map[any]Identity
	instances  []Instance
	configs    map[Identity]*Config
	params     map[Identity]map[string][]params.Spec
	newID      func() string
}

// Option configures a Registry.
type Option func(*Registry)

// WithIDGenerator replaces the identity token generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		identities: make(map[any]Identity),
		configs:    make(map[Identity]*Config),
		params:     make(map[Identity]map[string][]params.Spec),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds obj to the dispatch-eligible instances and returns its
// identity. Registering the same object again returns the same identity.
func (r *Registry) Register(obj any) (Identity, error) {
	if obj == nil {
		return "", util.NewConfigError("controller", "controller is nil")
	}
	if !reflect.ValueOf(obj).Comparable() {
		return "", util.NewConfigError(lifecycle.ClassOf(obj),
			"controller must be comparable, register a pointer")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.identities[obj]; ok {
		return id, nil
	}

	id := Identity(r.newID())
	r.identities[obj] = id
	r.instances = append(r.instances, Instance{ID: id, Object: obj})
	return id, nil
}

// IdentityOf returns the identity of a registered object.
func (r *Registry) IdentityOf(obj any) (Identity, bool) {
	if obj == nil || !reflect.ValueOf(obj).Comparable() {
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.identities[obj]
	return id, ok
}

// Object returns the controller registered under id.
func (r *Registry) Object(id Identity) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.objectLocked(id)
}

// Instances returns the registered controllers in registration order.
func (r *Registry) Instances() []Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.instances)
}

// GetOrCreateConfig returns the config of id, creating it on first access.
func (r *Registry) GetOrCreateConfig(id Identity) *Config {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.configs[id]; ok {
		return cfg
	}

	cfg := &Config{}
	if obj, ok := r.objectLocked(id); ok {
		cfg.Class = lifecycle.ClassOf(obj)
	}
	r.configs[id] = cfg
	return cfg
}

// Config returns the config of id without creating it.
func (r *Registry) Config(id Identity) (*Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[id]
	return cfg, ok
}

// ConfigOf returns the config of a registered object.
func (r *Registry) ConfigOf(obj any) (*Config, bool) {
	id, ok := r.IdentityOf(obj)
	if !ok {
		return nil, false
	}
	return r.Config(id)
}

// DefineParamMetadata records the source of the argument at index of
// handler. Indices may be defined in any order; gaps stay unset.
func (r *Registry) DefineParamMetadata(id Identity, handler string, index int, spec params.Spec) error {
	field := fmt.Sprintf("%s[%d]", handler, index)
	if index < 0 {
		return util.NewConfigError(field, "parameter index must not be negative")
	}
	if !spec.Valid() {
		return util.NewConfigError(field, fmt.Sprintf("invalid parameter source %q", spec.Tag))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byHandler, ok := r.params[id]
	if !ok {
		byHandler = make(map[string][]params.Spec)
		r.params[id] = byHandler
	}

	specs := byHandler[handler]
	if index >= len(specs) {
		specs = append(specs, make([]params.Spec, index+1-len(specs))...)
	}
	specs[index] = spec
	byHandler[handler] = specs
	return nil
}

// replaceParamMetadata swaps all parameter metadata of id for sets. A
// redeclared controller keeps nothing from its previous declaration.
func (r *Registry) replaceParamMetadata(id Identity, sets map[string][]params.Spec) error {
	byHandler := make(map[string][]params.Spec, len(sets))
	for handler, specs := range sets {
		for i, spec := range specs {
			if !spec.IsZero() && !spec.Valid() {
				return util.NewConfigError(fmt.Sprintf("%s[%d]", handler, i),
					fmt.Sprintf("invalid parameter source %q", spec.Tag))
			}
		}
		if len(specs) > 0 {
			byHandler[handler] = slices.Clone(specs)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.params[id] = byHandler
	return nil
}

// ParamMetadata returns the positional parameter specs of handler.
func (r *Registry) ParamMetadata(id Identity, handler string) []params.Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.params[id][handler])
}

// HandlerParams implements params.Source.
func (r *Registry) HandlerParams(owner, handler string) []params.Spec {
	return r.ParamMetadata(Identity(owner), handler)
}

func (r *Registry) objectLocked(id Identity) (any, bool) {
	for _, inst := range r.instances {
		if inst.ID == id {
			return inst.Object, true
		}
	}
	return nil, false
}
