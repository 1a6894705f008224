package lifecycle

import (
	"fmt"

	"github.com/vyrodovalexey/routable/internal/route"
	"github.com/vyrodovalexey/routable/internal/util"
)

// Kind discriminates an Outcome.
type Kind int

const (
	// KindUndefined is the zero kind; it normalises to KindAllow.
	KindUndefined Kind = iota
	// KindAllow lets the navigation proceed.
	KindAllow
	// KindDeny cancels the navigation.
	KindDeny
	// KindRedirect sends the navigation to another target.
	KindRedirect
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindAllow:
		return "allow"
	case KindDeny:
		return "deny"
	case KindRedirect:
		return "redirect"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of a guard, handler or whole navigation.
type Outcome struct {
	kind   Kind
	target route.Target
}

// Allow lets the navigation proceed.
func Allow() Outcome {
	return Outcome{kind: KindAllow}
}

// Deny cancels the navigation; the host stays on the current route.
func Deny() Outcome {
	return Outcome{kind: KindDeny}
}

// Redirect sends the navigation to target instead.
func Redirect(target route.Target) Outcome {
	return Outcome{kind: KindRedirect, target: target}
}

// RedirectTo redirects to a named route.
func RedirectTo(name string) Outcome {
	return Redirect(route.Target{Name: name})
}

// FromBool maps true to Allow and false to Deny.
func FromBool(ok bool) Outcome {
	if ok {
		return Allow()
	}
	return Deny()
}

// Kind returns the outcome kind.
func (o Outcome) Kind() Kind {
	return o.kind
}

// Target returns the redirect target. It is empty unless Kind is KindRedirect.
func (o Outcome) Target() route.Target {
	return o.target
}

// Proceeds reports whether the navigation may continue.
func (o Outcome) Proceeds() bool {
	return o.kind == KindAllow || o.kind == KindUndefined
}

// IsDeny reports whether the outcome cancels the navigation.
func (o Outcome) IsDeny() bool {
	return o.kind == KindDeny
}

// IsRedirect reports whether the outcome redirects the navigation.
func (o Outcome) IsRedirect() bool {
	return o.kind == KindRedirect
}

// String describes the outcome.
func (o Outcome) String() string {
	if o.kind == KindRedirect {
		return "redirect(" + o.target.String() + ")"
	}
	return o.kind.String()
}

// Normalize turns the raw result of a callback into Allow, Deny or a usable
// Redirect. A redirect without name or path, or an unknown kind, is a
// configuration error.
func Normalize(o Outcome, class, handler string) (Outcome, error) {
	switch o.kind {
	case KindUndefined, KindAllow:
		return Allow(), nil
	case KindDeny:
		return o, nil
	case KindRedirect:
		if o.target.IsZero() {
			return Outcome{}, util.NewOutcomeError(class, handler, "redirect without name or path")
		}
		return o, nil
	default:
		return Outcome{}, util.NewOutcomeError(class, handler, o.kind.String())
	}
}
