package route

import "maps"

// Record is a node in the host router's static route tree.
type Record struct {
	// Name is the unique symbolic identifier of the route. Routes without
	// a name cannot take part in name based matching.
	Name string `yaml:"name" route:"name"`

	// Path is the path pattern of the route as declared by the host router.
	Path string `yaml:"path" route:"path"`

	// Meta is an open key-value bag attached to the route.
	Meta map[string]any `yaml:"meta,omitempty" route:"meta"`

	// Children are nested routes.
	Children []Record `yaml:"children,omitempty" route:"children"`
}

// Location is a snapshot of a navigation endpoint.
type Location struct {
	Name     string            `route:"name"`
	Path     string            `route:"path"`
	FullPath string            `route:"fullPath"`
	Meta     map[string]any    `route:"meta"`
	Params   map[string]string `route:"params"`
	Query    map[string]string `route:"query"`

	// Matched is the ordered ancestor chain from root to leaf.
	Matched []Record `route:"matched"`
}

// LocationOf builds a location from a route record. The ancestor chain is
// left empty; the route table index owns chain computation.
func LocationOf(r Record) Location {
	return Location{
		Name:     r.Name,
		Path:     r.Path,
		FullPath: r.Path,
		Meta:     r.Meta,
	}
}

// Base strips a location down to the record fields used for matching.
func (l Location) Base() Record {
	return Record{Name: l.Name, Path: l.Path, Meta: l.Meta}
}

// WithParams returns a copy of the location carrying the given params.
func (l Location) WithParams(params map[string]string) Location {
	l.Params = maps.Clone(params)
	return l
}

// WithQuery returns a copy of the location carrying the given query.
func (l Location) WithQuery(query map[string]string) Location {
	l.Query = maps.Clone(query)
	return l
}

// Target is a redirect descriptor returned by a guard or handler.
type Target struct {
	Name   string            `route:"name"`
	Path   string            `route:"path"`
	Params map[string]string `route:"params"`
	Query  map[string]string `route:"query"`
}

// IsZero reports whether the target has neither name nor path and so
// cannot be navigated to.
func (t Target) IsZero() bool {
	return t.Name == "" && t.Path == ""
}

// String returns the name of the target, or its path if unnamed.
func (t Target) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Path
}
