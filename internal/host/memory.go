package host

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/vyrodovalexey/routable/internal/lifecycle"
	"github.com/vyrodovalexey/routable/internal/route"
	"github.com/vyrodovalexey/routable/internal/routetable"
)

// DefaultMaxRedirects bounds the redirects followed by one Push.
const DefaultMaxRedirects = 16

// ErrTooManyRedirects is returned when a Push keeps being redirected.
var ErrTooManyRedirects = errors.New("too many redirects")

// MemoryOption configures a MemoryRouter.
type MemoryOption func(*MemoryRouter)

// WithMaxRedirects sets the redirect limit of one Push.
func WithMaxRedirects(n int) MemoryOption {
	return func(r *MemoryRouter) {
		if n > 0 {
			r.maxRedirects = n
		}
	}
}

// MemoryRouter is an in-process host router. It starts on the route with
// path "/" and runs its hooks before every Push, following redirects.
type MemoryRouter struct {
	// push serializes navigations. mu guards the fields below and is not
	// held while hooks run, so hooks may call back into the router.
	push sync.Mutex

	mu           sync.Mutex
	routes       []route.Record
	index        *routetable.Index
	hooks        []Hook
	current      route.Location
	maxRedirects int
}

// NewMemoryRouter creates a router over routes.
func NewMemoryRouter(routes []route.Record, opts ...MemoryOption) (*MemoryRouter, error) {
	r := &MemoryRouter{
		routes:       routes,
		index:        routetable.New(""),
		maxRedirects: DefaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.index.Build(routes); err != nil {
		return nil, err
	}

	if root, err := r.resolve(route.Target{Path: "/"}); err == nil {
		r.current = root
	}
	return r, nil
}

// Routes implements Router.
func (r *MemoryRouter) Routes() []route.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.routes
}

// SetRoutes replaces the route tree. The current route is kept.
func (r *MemoryRouter) SetRoutes(routes []route.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.index.Build(routes); err != nil {
		return err
	}
	r.routes = routes
	return nil
}

// BeforeEach implements Router. Hooks run in installation order.
func (r *MemoryRouter) BeforeEach(hook Hook) {
	if hook == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
}

// Current returns the current route.
func (r *MemoryRouter) Current() route.Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Push navigates to target. It reports whether the current route changed
// to the final destination. A deny, or a redirect back to the current
// route, cancels the navigation.
func (r *MemoryRouter) Push(ctx context.Context, target route.Target) (bool, error) {
	r.push.Lock()
	defer r.push.Unlock()

	for range r.maxRedirects + 1 {
		r.mu.Lock()
		to, err := r.resolve(target)
		from := r.current
		hooks := slices.Clone(r.hooks)
		r.mu.Unlock()
		if err != nil {
			return false, err
		}

		outcome := lifecycle.Allow()
		for _, hook := range hooks {
			o, err := hook(ctx, to, from)
			if err != nil {
				return false, err
			}
			if !o.Proceeds() {
				outcome = o
				break
			}
		}

		switch {
		case outcome.Proceeds():
			r.mu.Lock()
			r.current = to
			r.mu.Unlock()
			return true, nil
		case outcome.IsRedirect() && !isLocation(outcome.Target(), from):
			target = outcome.Target()
		default:
			return false, nil
		}
	}
	return false, fmt.Errorf("push %s: %w", target, ErrTooManyRedirects)
}

func isLocation(t route.Target, loc route.Location) bool {
	if t.Name != "" {
		return t.Name == loc.Name
	}
	return t.Path == loc.Path
}

// resolve builds the location of a target. Named targets must exist. Path
// targets are matched against the route patterns; a path that matches no
// route yields an unnamed location.
func (r *MemoryRouter) resolve(t route.Target) (route.Location, error) {
	if t.IsZero() {
		return route.Location{}, errors.New("push: target has neither name nor path")
	}

	var loc route.Location
	if t.Name != "" {
		l, err := r.index.Location(t.Name)
		if err != nil {
			return route.Location{}, fmt.Errorf("push: %w", err)
		}
		loc = l
		if t.Params != nil {
			loc.Path = expandPath(loc.FullPath, t.Params)
		}
	} else {
		loc = r.locationForPath(t.Path)
	}

	if t.Params != nil {
		params := loc.Params
		if params == nil {
			params = make(map[string]string, len(t.Params))
		}
		for k, v := range t.Params {
			params[k] = v
		}
		loc = loc.WithParams(params)
	}
	if t.Query != nil {
		loc = loc.WithQuery(t.Query)
	}
	return loc, nil
}

func (r *MemoryRouter) locationForPath(p string) route.Location {
	names := r.index.Names()
	sort.Strings(names)

	for _, name := range names {
		e, _ := r.index.Entry(name)
		params, ok := matchPath(e.FullPath, p)
		if !ok {
			continue
		}
		loc, err := r.index.Location(name)
		if err != nil {
			continue
		}
		loc.Path = p
		if len(params) > 0 {
			loc = loc.WithParams(params)
		}
		return loc
	}
	return route.Location{Path: p, FullPath: p}
}

// matchPath matches a concrete path against a pattern with ":name"
// segments and returns the captured params.
func matchPath(pattern, p string) (map[string]string, bool) {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(p, "/"), "/")
	if len(ps) != len(xs) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range ps {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			if xs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:]] = xs[i]
			continue
		}
		if seg != xs[i] {
			return nil, false
		}
	}
	return params, true
}

// expandPath substitutes ":name" segments with params.
func expandPath(pattern string, params map[string]string) string {
	segs := strings.Split(pattern, "/")
	for i, seg := range segs {
		if strings.HasPrefix(seg, ":") {
			if v, ok := params[seg[1:]]; ok {
				segs[i] = v
			}
		}
	}
	return strings.Join(segs, "/")
}
