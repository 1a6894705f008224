package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routable/internal/route"
	"github.com/vyrodovalexey/routable/internal/util"
)

func TestOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		outcome  Outcome
		kind     Kind
		proceeds bool
		str      string
	}{
		{name: "zero", outcome: Outcome{}, kind: KindUndefined, proceeds: true, str: "undefined"},
		{name: "allow", outcome: Allow(), kind: KindAllow, proceeds: true, str: "allow"},
		{name: "deny", outcome: Deny(), kind: KindDeny, str: "deny"},
		{name: "redirect", outcome: RedirectTo("login"), kind: KindRedirect, str: "redirect(login)"},
		{name: "true", outcome: FromBool(true), kind: KindAllow, proceeds: true, str: "allow"},
		{name: "false", outcome: FromBool(false), kind: KindDeny, str: "deny"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.kind, tt.outcome.Kind())
			assert.Equal(t, tt.proceeds, tt.outcome.Proceeds())
			assert.Equal(t, tt.str, tt.outcome.String())
			assert.Equal(t, tt.kind == KindDeny, tt.outcome.IsDeny())
			assert.Equal(t, tt.kind == KindRedirect, tt.outcome.IsRedirect())
		})
	}

	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		outcome  Outcome
		expected Outcome
		wantErr  bool
	}{
		{name: "undefined becomes allow", outcome: Outcome{}, expected: Allow()},
		{name: "allow", outcome: Allow(), expected: Allow()},
		{name: "deny", outcome: Deny(), expected: Deny()},
		{name: "redirect by name", outcome: RedirectTo("login"), expected: RedirectTo("login")},
		{name: "redirect by path", outcome: Redirect(route.Target{Path: "/login"}), expected: Redirect(route.Target{Path: "/login"})},
		{name: "redirect without target", outcome: Redirect(route.Target{}), wantErr: true},
		{name: "unknown kind", outcome: Outcome{kind: Kind(42)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Normalize(tt.outcome, "Ctrl", "Guard")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, util.ErrInvalidOutcome)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
