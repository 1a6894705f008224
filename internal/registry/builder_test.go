package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routable/internal/lifecycle"
	"github.com/vyrodovalexey/routable/internal/match"
	"github.com/vyrodovalexey/routable/internal/params"
	"github.com/vyrodovalexey/routable/internal/route"
	"github.com/vyrodovalexey/routable/internal/util"
)

type productController struct{}

func (c *productController) Load(_ context.Context, _ string) error { return nil }

func (c *productController) Leave(_ context.Context) error { return nil }

func (c *productController) Refresh(_ context.Context, _ string, _ string) error { return nil }

func (c *productController) CheckAuth(_ context.Context, _ any) (lifecycle.Outcome, error) {
	return lifecycle.Allow(), nil
}

func (c *productController) Track(_ context.Context, _ route.Location) error { return nil }

func (c *productController) Decide(_ context.Context) (lifecycle.Outcome, error) {
	return lifecycle.Deny(), nil
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	reg := New()
	ctrl := &productController{}
	matcher := func(route.Location) bool { return false }

	id, err := Declare(reg, ctrl).
		Routes(match.Literal("product"), match.MustPattern("^prod")).
		Target(match.TargetName).
		Matcher(matcher).
		Activated("Load", 10, params.Param("id")).
		Deactivated("Leave", 0).
		Updated("Refresh", 5, params.Param("id"), params.Query("q")).
		GuardEnter("CheckAuth", 50, params.Meta("requiresAuth")).
		Watch("Track", WatchOptions{Priority: 3, On: []Event{EventEnter}}, params.To("")).
		Build()
	require.NoError(t, err)

	cfg, ok := reg.Config(id)
	require.True(t, ok)

	assert.Equal(t, "productController", cfg.Class)
	assert.Len(t, cfg.ActiveRoutes, 2)
	assert.Equal(t, match.TargetName, cfg.MatchTarget)
	assert.NotNil(t, cfg.RouteMatcher)

	require.NotNil(t, cfg.Activate)
	assert.Equal(t, "Load", cfg.Activate.Handler)
	assert.Equal(t, 10, cfg.Activate.Priority)
	assert.Equal(t, 1, cfg.Activate.Method().Arity())
	require.NotNil(t, cfg.Deactivate)
	require.NotNil(t, cfg.Update)
	require.NotNil(t, cfg.GuardEnter)
	assert.Equal(t, lifecycle.ShapeOutcome, cfg.GuardEnter.Method().Shape())
	assert.Nil(t, cfg.GuardLeave)

	require.Len(t, cfg.Watchers, 1)
	assert.Equal(t, 3, cfg.Watchers[0].Priority)
	assert.Nil(t, cfg.Watchers[0].Match)

	assert.Equal(t, []params.Spec{params.Param("id"), params.Query("q")}, reg.ParamMetadata(id, "Refresh"))
	assert.Equal(t, []params.Spec{params.Meta("requiresAuth")}, reg.ParamMetadata(id, "CheckAuth"))
	assert.Empty(t, reg.ParamMetadata(id, "Leave"))
}

func TestBuilder_Build_Class(t *testing.T) {
	t.Parallel()

	reg := New()
	id, err := Declare(reg, &productController{}).Class("Catalog").Build()
	require.NoError(t, err)

	cfg, ok := reg.Config(id)
	require.True(t, ok)
	assert.Equal(t, "Catalog", cfg.Class)
}

func TestBuilder_Build_WatcherMatch(t *testing.T) {
	t.Parallel()

	reg := New()
	id, err := Declare(reg, &productController{}).
		Watch("Track", WatchOptions{Match: []match.Expression{match.Literal("about")}}).
		Watch("Track", WatchOptions{Match: []match.Expression{}}).
		Build()
	require.NoError(t, err)

	cfg, _ := reg.Config(id)
	require.Len(t, cfg.Watchers, 2)
	assert.NotNil(t, cfg.Watchers[0].Match)
	assert.Nil(t, cfg.Watchers[1].Match, "empty match list is absent")
}

func TestBuilder_Build_KeepsActiveState(t *testing.T) {
	t.Parallel()

	reg := New()
	ctrl := &productController{}
	id, err := Declare(reg, ctrl).Routes(match.Literal("a")).Build()
	require.NoError(t, err)
	cfg, _ := reg.Config(id)
	cfg.SetActive(true)

	again, err := Declare(reg, ctrl).Routes(match.Literal("b")).Build()
	require.NoError(t, err)
	assert.Equal(t, id, again)

	cfg, _ = reg.Config(id)
	assert.True(t, cfg.IsActive())
}

func TestBuilder_Build_RedeclareReplacesParamMetadata(t *testing.T) {
	t.Parallel()

	reg := New()
	ctrl := &productController{}
	id, err := Declare(reg, ctrl).
		Activated("Load", 0, params.Param("id")).
		Updated("Refresh", 0, params.Param("id"), params.Query("q")).
		Build()
	require.NoError(t, err)
	require.Len(t, reg.ParamMetadata(id, "Refresh"), 2)

	again, err := Declare(reg, ctrl).
		Updated("Refresh", 0, params.Param("id")).
		Build()
	require.NoError(t, err)
	require.Equal(t, id, again)

	assert.Equal(t, []params.Spec{params.Param("id")}, reg.ParamMetadata(id, "Refresh"))
	assert.Empty(t, reg.ParamMetadata(id, "Load"), "dropped handlers lose their metadata")
}

func TestBuilder_Build_FailedRedeclareKeepsParamMetadata(t *testing.T) {
	t.Parallel()

	reg := New()
	ctrl := &productController{}
	id, err := Declare(reg, ctrl).Updated("Refresh", 0, params.Param("id"), params.Query("q")).Build()
	require.NoError(t, err)

	_, err = Declare(reg, ctrl).Updated("Missing", 0).Build()
	require.Error(t, err)

	assert.Len(t, reg.ParamMetadata(id, "Refresh"), 2)
}

func TestBuilder_Build_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(*Builder) *Builder
		field string
	}{
		{
			name:  "missing method",
			build: func(b *Builder) *Builder { return b.Activated("Missing", 0) },
			field: "activate",
		},
		{
			name:  "too many params",
			build: func(b *Builder) *Builder { return b.Deactivated("Leave", 0, params.Param("id")) },
			field: "deactivate",
		},
		{
			name: "invalid param",
			build: func(b *Builder) *Builder {
				return b.Activated("Load", 0, params.Spec{Tag: "cookie"})
			},
			field: "activate",
		},
		{
			name:  "watcher returning outcome",
			build: func(b *Builder) *Builder { return b.Watch("Decide", WatchOptions{}) },
			field: "watchers[0]",
		},
		{
			name: "unknown watcher event",
			build: func(b *Builder) *Builder {
				return b.Watch("Track", WatchOptions{On: []Event{"reload"}})
			},
			field: "watchers[0]",
		},
		{
			name:  "nil route",
			build: func(b *Builder) *Builder { return b.Routes(nil) },
			field: "routes[0]",
		},
		{
			name: "conflicting params",
			build: func(b *Builder) *Builder {
				return b.Activated("Refresh", 0, params.Param("id")).
					Updated("Refresh", 0, params.Query("id"))
			},
			field: "update",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg := New()
			_, err := tt.build(Declare(reg, &productController{})).Build()
			require.Error(t, err)

			var verr *util.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
			assert.ErrorIs(t, err, util.ErrConfigInvalid)
			assert.Empty(t, reg.Instances(), "nothing is registered on failure")
		})
	}
}

func TestBuilder_Build_NilRegistry(t *testing.T) {
	t.Parallel()

	_, err := Declare(nil, &productController{}).Build()
	assert.True(t, util.IsConfigError(err))
}

func TestConfig_Expression(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	assert.Nil(t, cfg.Expression())

	cfg.ActiveRoutes = []match.Expression{match.Literal("a"), match.Literal("b")}
	expr := cfg.Expression()
	require.NotNil(t, expr)
	assert.True(t, expr.Matches(route.Location{Name: "b"}, match.Options{}))
	assert.False(t, expr.Matches(route.Location{Name: "c"}, match.Options{}))
}
