package params

import (
	"github.com/vyrodovalexey/routable/internal/route"
)

// Tag identifies the source of an injected argument.
type Tag string

const (
	// TagParam injects route params.
	TagParam Tag = "param"
	// TagQuery injects query values.
	TagQuery Tag = "query"
	// TagMeta injects route meta.
	TagMeta Tag = "meta"
	// TagTo injects the destination location.
	TagTo Tag = "to"
	// TagFrom injects the origin location.
	TagFrom Tag = "from"
)

// Direction selects which location a meta argument is read from.
type Direction string

const (
	// DirectionTo reads from the destination. It is the default.
	DirectionTo Direction = "to"
	// DirectionFrom reads from the origin.
	DirectionFrom Direction = "from"
)

// Spec declares the source of one positional handler argument.
type Spec struct {
	Tag       Tag       `yaml:"tag" json:"tag"`
	Path      string    `yaml:"path,omitempty" json:"path,omitempty"`
	Direction Direction `yaml:"direction,omitempty" json:"direction,omitempty"`
}

// IsZero reports whether the spec is an unset position.
func (s Spec) IsZero() bool {
	return s.Tag == ""
}

// Valid reports whether the spec has a known tag and direction.
func (s Spec) Valid() bool {
	switch s.Tag {
	case TagParam, TagQuery, TagTo, TagFrom:
		return s.Direction == ""
	case TagMeta:
		return s.Direction == "" || s.Direction == DirectionTo || s.Direction == DirectionFrom
	default:
		return false
	}
}

// Param injects all params, or the named param.
func Param(name string) Spec { return Spec{Tag: TagParam, Path: name} }

// Query injects the whole query, or the named query value.
func Query(name string) Spec { return Spec{Tag: TagQuery, Path: name} }

// Meta injects the destination meta, or a path into it.
func Meta(path string) Spec { return Spec{Tag: TagMeta, Path: path} }

// MetaFrom injects the origin meta, or a path into it.
func MetaFrom(path string) Spec {
	return Spec{Tag: TagMeta, Path: path, Direction: DirectionFrom}
}

// To injects the destination location, or a path into it.
func To(path string) Spec { return Spec{Tag: TagTo, Path: path} }

// From injects the origin location, or a path into it.
func From(path string) Spec { return Spec{Tag: TagFrom, Path: path} }

// Resolve produces one argument per spec, in positional order. Unset and
// unknown specs resolve to nil.
func Resolve(specs []Spec, to, from route.Location) []any {
	if len(specs) == 0 {
		return nil
	}

	args := make([]any, len(specs))
	for i, s := range specs {
		args[i] = resolveOne(s, to, from)
	}
	return args
}

func resolveOne(s Spec, to, from route.Location) any {
	switch s.Tag {
	case TagParam:
		return lookupStrings(to.Params, s.Path)
	case TagQuery:
		return lookupStrings(to.Query, s.Path)
	case TagMeta:
		loc := to
		if s.Direction == DirectionFrom {
			loc = from
		}
		if s.Path == "" {
			return loc.Meta
		}
		return route.Lookup(loc.Meta, s.Path)
	case TagTo:
		return route.Lookup(to, s.Path)
	case TagFrom:
		return route.Lookup(from, s.Path)
	default:
		return nil
	}
}

func lookupStrings(m map[string]string, key string) any {
	if key == "" {
		return m
	}
	v, ok := m[key]
	if !ok {
		return nil
	}
	return v
}

// Source provides the declared specs of a handler.
type Source interface {
	HandlerParams(owner, handler string) []Spec
}

// Resolver resolves handler arguments from a metadata source.
type Resolver struct {
	source Source
}

// NewResolver creates a resolver backed by source.
func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the arguments of handler on owner for a navigation. A
// handler without declared specs receives no arguments.
func (r *Resolver) Resolve(owner, handler string, to, from route.Location) []any {
	if r == nil || r.source == nil {
		return nil
	}
	return Resolve(r.source.HandlerParams(owner, handler), to, from)
}
