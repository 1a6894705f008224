package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	loc := Location{
		Name:   "foo",
		Path:   "/foo/42",
		Meta:   map[string]any{"auth": map[string]any{"required": true}, "title": "Foo"},
		Params: map[string]string{"id": "42"},
	}

	tests := []struct {
		name     string
		value    any
		path     string
		expected any
	}{
		{name: "empty path returns value", value: "x", path: "", expected: "x"},
		{name: "struct field by tag", value: loc, path: "name", expected: "foo"},
		{name: "struct field case insensitive", value: loc, path: "NAME", expected: "foo"},
		{name: "pointer to struct", value: &loc, path: "path", expected: "/foo/42"},
		{name: "nested map", value: loc, path: "meta.auth.required", expected: true},
		{name: "string map", value: loc, path: "params.id", expected: "42"},
		{name: "missing map key", value: loc, path: "params.slug", expected: nil},
		{name: "missing field", value: loc, path: "nope", expected: nil},
		{name: "through scalar", value: loc, path: "name.length", expected: nil},
		{name: "nil map", value: Location{}, path: "query.q", expected: nil},
		{name: "nil pointer", value: (*Location)(nil), path: "name", expected: nil},
		{name: "non string keyed map", value: map[int]string{1: "a"}, path: "1", expected: nil},
		{name: "plain map", value: map[string]any{"a": map[string]string{"b": "c"}}, path: "a.b", expected: "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Lookup(tt.value, tt.path))
		})
	}
}

func TestLookupString(t *testing.T) {
	t.Parallel()

	loc := Location{Name: "foo", Meta: map[string]any{"count": 3}}

	s, ok := LookupString(loc, "name")
	assert.True(t, ok)
	assert.Equal(t, "foo", s)

	_, ok = LookupString(loc, "meta.count")
	assert.False(t, ok)
}
