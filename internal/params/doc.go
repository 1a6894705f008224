// Package params resolves the arguments injected into lifecycle handlers.
//
// Each handler parameter is declared with a [Spec] naming its source:
//
//	tag    no path                 with path
//	param  to.Params               to.Params[path]
//	query  to.Query                to.Query[path]
//	meta   to.Meta (or from.Meta)  lookup into that meta
//	to     destination location    lookup into it
//	from   origin location         lookup into it
//
// Specs are positional and may be declared out of order. Unset positions
// resolve to nil, which the handler receives as the zero value.
package params
