package match

import (
	"fmt"

	"github.com/vyrodovalexey/routable/internal/route"
)

// resolve extracts the target value from the route.
func resolve(loc route.Location, target Target, opts Options) (any, bool) {
	switch target {
	case TargetName:
		if loc.Name == "" {
			return nil, false
		}
		return loc.Name, true
	case TargetPath:
		return loc.Path, true
	case TargetNameChain:
		if opts.Chains == nil || loc.Name == "" {
			return nil, false
		}
		chain, ok := opts.Chains.NameChain(loc.Name)
		if !ok {
			return nil, false
		}
		return chain, true
	default:
		v := route.Lookup(loc, string(target))
		if v == nil {
			return nil, false
		}
		return v, true
	}
}

// resolveString returns the target value only if it is a string. Literal
// comparison is strict equality, so non-string values never match.
func resolveString(loc route.Location, target Target, opts Options) (string, bool) {
	v, ok := resolve(loc, target, opts)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// resolveText returns the target value formatted as text.
func resolveText(loc route.Location, target Target, opts Options) (string, bool) {
	v, ok := resolve(loc, target, opts)
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Resolve exposes target resolution for inspection tooling.
func Resolve(loc route.Location, target Target, opts Options) (any, bool) {
	if target == "" {
		target = opts.target()
	}
	return resolve(loc, target, opts)
}
