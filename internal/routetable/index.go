package routetable

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/vyrodovalexey/routable/internal/match"
	"github.com/vyrodovalexey/routable/internal/route"
	"github.com/vyrodovalexey/routable/internal/util"
)

// Entry is the precomputed chain information for one named route.
type Entry struct {
	// NameChain is the chain of ancestor names joined by the separator.
	NameChain string

	// FullPath is the route path with relative ancestor paths resolved.
	FullPath string

	// Matched is the chain of records from the root route down to this one.
	// Record paths are fully resolved and children are omitted.
	Matched []route.Record
}

// Index is a read-only cache of route chains keyed by route name.
type Index struct {
	mu        sync.RWMutex
	separator string
	entries   map[string]Entry
	unnamed   []route.Record
}

// New creates an empty index. An empty separator uses match.DefaultSeparator.
func New(separator string) *Index {
	if separator == "" {
		separator = match.DefaultSeparator
	}
	return &Index{
		separator: separator,
		entries:   make(map[string]Entry),
	}
}

// Separator returns the name chain separator.
func (ix *Index) Separator() string {
	return ix.separator
}

// Build walks the route tree depth-first and replaces the index contents.
// Duplicate route names are rejected; the previous contents are kept in
// that case.
func (ix *Index) Build(roots []route.Record) error {
	entries := make(map[string]Entry)
	var unnamed []route.Record

	var walk func(routes []route.Record, parents []route.Record, parentPath string) error
	walk = func(routes []route.Record, parents []route.Record, parentPath string) error {
		for _, r := range routes {
			full := joinPath(parentPath, r.Path)
			node := route.Record{Name: r.Name, Path: full, Meta: r.Meta}
			chain := append(append(make([]route.Record, 0, len(parents)+1), parents...), node)

			if r.Name == "" {
				unnamed = append(unnamed, node)
			} else {
				if _, dup := entries[r.Name]; dup {
					return util.NewConfigError("routes", fmt.Sprintf("duplicate route name: %s", r.Name))
				}
				entries[r.Name] = Entry{
					NameChain: ix.joinNames(chain),
					FullPath:  full,
					Matched:   chain,
				}
			}

			if err := walk(r.Children, chain, full); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(roots, nil, ""); err != nil {
		return err
	}

	ix.mu.Lock()
	ix.entries = entries
	ix.unnamed = unnamed
	ix.mu.Unlock()

	return nil
}

func (ix *Index) joinNames(chain []route.Record) string {
	names := make([]string, 0, len(chain))
	for _, r := range chain {
		if r.Name != "" {
			names = append(names, r.Name)
		}
	}
	return strings.Join(names, ix.separator)
}

// joinPath resolves a child path against its parent. Absolute child paths
// replace the parent path.
func joinPath(parent, child string) string {
	if strings.HasPrefix(child, "/") || parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return path.Join(parent, child)
}

// Entry returns the chain entry for a route name.
func (ix *Index) Entry(name string) (Entry, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	e, ok := ix.entries[name]
	return e, ok
}

// NameChain implements match.ChainResolver.
func (ix *Index) NameChain(name string) (string, bool) {
	e, ok := ix.Entry(name)
	if !ok {
		return "", false
	}
	return e.NameChain, true
}

// Len returns the number of named routes in the index.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Names returns the indexed route names in no particular order.
func (ix *Index) Names() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	names := make([]string, 0, len(ix.entries))
	for name := range ix.entries {
		names = append(names, name)
	}
	return names
}

// Unnamed returns the routes skipped because they have no name. Their
// paths are fully resolved.
func (ix *Index) Unnamed() []route.Record {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]route.Record, len(ix.unnamed))
	copy(out, ix.unnamed)
	return out
}

// Location builds the descriptor of a named route with its ancestor chain.
func (ix *Index) Location(name string) (route.Location, error) {
	e, ok := ix.Entry(name)
	if !ok {
		return route.Location{}, util.WrapError(util.ErrNotFound, "route "+name)
	}
	leaf := e.Matched[len(e.Matched)-1]
	return route.Location{
		Name:     leaf.Name,
		Path:     e.FullPath,
		FullPath: e.FullPath,
		Meta:     leaf.Meta,
		Matched:  e.Matched,
	}, nil
}

// ChainMatches reports whether expr matches any route in the ancestor chain
// of loc. Unnamed locations and names missing from the index have no chain;
// expr is evaluated against loc itself, so only path, field and predicate
// expressions can match them.
func (ix *Index) ChainMatches(loc route.Location, expr match.Expression, opts match.Options) bool {
	if expr == nil {
		return false
	}
	if opts.Chains == nil {
		opts.Chains = ix
	}
	if loc.Name == "" {
		return match.Matches(loc, expr, opts)
	}
	e, ok := ix.Entry(loc.Name)
	if !ok {
		return match.Matches(loc, expr, opts)
	}

	for _, r := range e.Matched {
		if match.Matches(route.LocationOf(r), expr, opts) {
			return true
		}
	}
	return false
}
