package dispatch

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routable/internal/lifecycle"
	"github.com/vyrodovalexey/routable/internal/route"
	"github.com/vyrodovalexey/routable/internal/routetable"
)

// recorder collects callback invocations across controllers.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) count(call string) int {
	n := 0
	for _, c := range r.list() {
		if c == call {
			n++
		}
	}
	return n
}

// spy is a controller whose callbacks record themselves.
type spy struct {
	name    string
	rec     *recorder
	outcome lifecycle.Outcome
	err     error
	args    []any
}

func (p *spy) Guard(_ context.Context) (lifecycle.Outcome, error) {
	p.rec.add(p.name + ".guard")
	return p.outcome, p.err
}

func (p *spy) Leave(_ context.Context) (lifecycle.Outcome, error) {
	p.rec.add(p.name + ".leave")
	return p.outcome, p.err
}

func (p *spy) Activate(_ context.Context) (lifecycle.Outcome, error) {
	p.rec.add(p.name + ".activate")
	return p.outcome, p.err
}

func (p *spy) Deactivate(_ context.Context) error {
	p.rec.add(p.name + ".deactivate")
	return p.err
}

func (p *spy) Update(_ context.Context) error {
	p.rec.add(p.name + ".update")
	return p.err
}

func (p *spy) Watch(_ context.Context) error {
	p.rec.add(p.name + ".watch")
	return p.err
}

func (p *spy) Capture(_ context.Context, id, q string, meta map[string]any, to, from string) error {
	p.rec.add(p.name + ".capture")
	p.args = []any{id, q, meta, to, from}
	return nil
}

// testRoutes builds the route tree shared by the dispatcher tests.
func testRoutes() []route.Record {
	return []route.Record{
		{Name: "home", Path: "/"},
		{Name: "products", Path: "/products", Children: []route.Record{
			{Name: "product", Path: ":id"},
		}},
		{Name: "account", Path: "/account", Meta: map[string]any{"requiresAuth": true}},
		{Name: "login", Path: "/login", Meta: map[string]any{"requiresAuth": false}},
		{Name: "about", Path: "/about"},
	}
}

func newIndex(t *testing.T) *routetable.Index {
	t.Helper()

	ix := routetable.New("")
	require.NoError(t, ix.Build(testRoutes()))
	return ix
}

func loc(t *testing.T, ix *routetable.Index, name string) route.Location {
	t.Helper()

	l, err := ix.Location(name)
	require.NoError(t, err)
	return l
}
