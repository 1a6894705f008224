package match

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vyrodovalexey/routable/internal/route"
)

type chainMap map[string]string

func (c chainMap) NameChain(name string) (string, bool) {
	chain, ok := c[name]
	return chain, ok
}

func testLocation() route.Location {
	return route.Location{
		Name: "product",
		Path: "/products/42",
		Meta: map[string]any{"section": "catalog", "requiresAuth": true, "level": 3},
	}
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	chains := chainMap{"product": "shop.products.product"}

	tests := []struct {
		name     string
		loc      route.Location
		literal  Literal
		target   Target
		expected bool
	}{
		{name: "name equal", loc: testLocation(), literal: "product", target: TargetName, expected: true},
		{name: "name differs", loc: testLocation(), literal: "products", target: TargetName},
		{name: "default target is name", loc: testLocation(), literal: "product", expected: true},
		{name: "unnamed route", loc: route.Location{Path: "/x"}, literal: "", target: TargetName},
		{name: "path exact", loc: testLocation(), literal: "/products/42", target: TargetPath, expected: true},
		{name: "path placeholder", loc: testLocation(), literal: "/products/:id", target: TargetPath, expected: true},
		{name: "path placeholder is anchored", loc: route.Location{Path: "/products/42/reviews"}, literal: "/products/:id", target: TargetPath},
		{name: "path placeholder one segment", loc: route.Location{Path: "/products/"}, literal: "/products/:id", target: TargetPath},
		{name: "placeholder ignored for name", loc: route.Location{Name: "x"}, literal: ":id", target: TargetName},
		{name: "name chain", loc: testLocation(), literal: "shop.products.product", target: TargetNameChain, expected: true},
		{name: "name chain unknown route", loc: route.Location{Name: "other"}, literal: "other", target: TargetNameChain},
		{name: "meta field", loc: testLocation(), literal: "catalog", target: "meta.section", expected: true},
		{name: "meta non string", loc: testLocation(), literal: "true", target: "meta.requiresAuth"},
		{name: "missing field", loc: testLocation(), literal: "catalog", target: "meta.nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := Options{DefaultTarget: tt.target, Chains: chains}
			assert.Equal(t, tt.expected, Matches(tt.loc, tt.literal, opts))
		})
	}
}

func TestPattern(t *testing.T) {
	t.Parallel()

	opts := Options{Chains: chainMap{"product": "shop.products.product"}}
	loc := testLocation()

	assert.True(t, Matches(loc, MustPattern("^prod"), opts))
	assert.False(t, Matches(loc, MustPattern("^shop"), opts))
	assert.True(t, Matches(loc, MustPattern(`^shop\.`), opts.WithTarget(TargetNameChain)))
	assert.True(t, Matches(loc, Pattern(regexp.MustCompile(`^3$`)), opts.WithTarget("meta.level")))
	assert.False(t, Matches(loc, MustPattern(".*"), opts.WithTarget("meta.missing")))
	assert.False(t, Matches(loc, PatternExpression{}, opts))

	_, err := CompilePattern("[invalid")
	assert.Error(t, err)
	assert.Panics(t, func() { MustPattern("[invalid") })
}

func TestPredicate(t *testing.T) {
	t.Parallel()

	var seen route.Location
	pred := Predicate(func(loc route.Location) bool {
		seen = loc
		return loc.Meta["requiresAuth"] == true
	})

	loc := testLocation()
	assert.True(t, Matches(loc, pred, Options{}))
	assert.Equal(t, loc.Path, seen.Path)
	assert.False(t, Matches(loc, Predicate(nil), Options{}))
}

func TestTargeted(t *testing.T) {
	t.Parallel()

	loc := testLocation()
	opts := Options{DefaultTarget: TargetName}

	assert.True(t, Matches(loc, Targeted(TargetPath, Literal("/products/:id")), opts))
	assert.False(t, Matches(loc, Targeted(TargetPath, Literal("product")), opts))
	assert.True(t, Matches(loc, Targeted("", Literal("product")), opts))
	assert.False(t, Matches(loc, Targeted(TargetPath, nil), opts))
	assert.Equal(t, `path:"/x"`, Targeted(TargetPath, Literal("/x")).String())
}

func TestList(t *testing.T) {
	t.Parallel()

	loc := testLocation()
	opts := Options{}

	assert.False(t, Matches(loc, Any(), opts), "empty list matches nothing")
	assert.False(t, Matches(loc, Any(Literal("a"), Literal("b")), opts))
	assert.True(t, Matches(loc, Any(Literal("a"), Literal("product")), opts))
	assert.True(t, Matches(loc, Any(nil, MustPattern("duct$")), opts))
	assert.True(t, Matches(loc, Any(Any(Literal("product"))), opts))
	assert.False(t, Matches(loc, nil, opts))
	assert.Equal(t, `["a", /b/]`, Any(Literal("a"), nil, MustPattern("b")).String())
}

func TestResolve(t *testing.T) {
	t.Parallel()

	loc := testLocation()

	v, ok := Resolve(loc, "", Options{DefaultTarget: TargetPath})
	assert.True(t, ok)
	assert.Equal(t, "/products/42", v)

	_, ok = Resolve(loc, TargetNameChain, Options{})
	assert.False(t, ok, "name chain needs a resolver")
}

func TestPathLiteralPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected string
	}{
		{path: "/products/:id", expected: `^/products/([^/]+)$`},
		{path: "/a.b/:x/:y", expected: `^/a\.b/([^/]+)/([^/]+)$`},
		{path: "/plain", expected: `^/plain$`},
		{path: "/:", expected: `^/:$`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, PathLiteralPattern(tt.path))
		})
	}

	assert.True(t, HasPlaceholders("/products/:id"))
	assert.False(t, HasPlaceholders("/products/id:x"))
	assert.False(t, HasPlaceholders("/:"))
}

