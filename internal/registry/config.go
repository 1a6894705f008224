package registry

import (
	"slices"
	"sync/atomic"

	"github.com/vyrodovalexey/routable/internal/lifecycle"
	"github.com/vyrodovalexey/routable/internal/match"
	"github.com/vyrodovalexey/routable/internal/route"
)

// Identity is the opaque token assigned to a registered controller.
type Identity string

// String returns the token.
func (id Identity) String() string {
	return string(id)
}

// Event is a navigation event a watcher can observe.
type Event string

const (
	// EventEnter fires when the destination matches.
	EventEnter Event = "enter"
	// EventLeave fires when the origin matches.
	EventLeave Event = "leave"
	// EventUpdate fires when the destination matches and the route name
	// does not change.
	EventUpdate Event = "update"
)

// Valid reports whether the event is known.
func (e Event) Valid() bool {
	switch e {
	case EventEnter, EventLeave, EventUpdate:
		return true
	default:
		return false
	}
}

// HandlerConfig binds a lifecycle phase to a controller method.
type HandlerConfig struct {
	Handler  string
	Priority int

	method lifecycle.Method
}

// Method returns the bound method.
func (h *HandlerConfig) Method() lifecycle.Method {
	return h.method
}

// Watcher is a passive observer of navigations.
type Watcher struct {
	Handler  string
	Priority int

	// On lists the observed events. Empty means every event.
	On []Event

	// Match restricts the watcher to routes it matches. Nil falls back to
	// the controller's active routes.
	Match match.Expression

	method lifecycle.Method
}

// Method returns the bound method.
func (w Watcher) Method() lifecycle.Method {
	return w.method
}

// Observes reports whether the watcher listens to e.
func (w Watcher) Observes(e Event) bool {
	return len(w.On) == 0 || slices.Contains(w.On, e)
}

// InstanceMatcher is implemented by controllers that decide themselves
// whether a route is theirs. It takes precedence over Config.RouteMatcher.
type InstanceMatcher interface {
	MatchesRoute(loc route.Location) bool
}

// Config is the RoutableConfig of one controller.
type Config struct {
	// Class labels the controller in logs and errors.
	Class string

	// ActiveRoutes are OR-ed match expressions evaluated against the chain
	// of the route.
	ActiveRoutes []match.Expression

	// MatchTarget overrides the default match target for ActiveRoutes.
	MatchTarget match.Target

	// RouteMatcher is a custom predicate OR-ed with ActiveRoutes.
	RouteMatcher func(route.Location) bool

	Activate   *HandlerConfig
	Deactivate *HandlerConfig
	Update     *HandlerConfig
	GuardEnter *HandlerConfig
	GuardLeave *HandlerConfig

	Watchers []Watcher

	active atomic.Bool
}

// IsActive reports whether the controller is currently active.
func (c *Config) IsActive() bool {
	return c.active.Load()
}

// SetActive records the active state of the controller.
func (c *Config) SetActive(active bool) {
	c.active.Store(active)
}

// Expression returns ActiveRoutes as a single OR expression, or nil when
// the controller declares no routes.
func (c *Config) Expression() match.Expression {
	if len(c.ActiveRoutes) == 0 {
		return nil
	}
	return match.Any(c.ActiveRoutes...)
}
