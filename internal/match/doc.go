// Package match evaluates route match expressions.
//
// An [Expression] decides whether a route descriptor belongs to a
// controller's scope. The evaluator resolves a target value from the
// route and compares it with the expression:
//
//   - name: the route name
//   - path: the route path
//   - name-chain: the ancestor names joined by a separator (default ".")
//   - any other string: a dotted field lookup into the route (e.g. "meta.section")
//
// Expression forms:
//
//   - [Literal]: exact equality. Against the path target, literals with
//     ":token" segments compile into anchored patterns where every token
//     matches one path segment.
//   - [Pattern]: a regular expression tested against the target value.
//   - [Predicate]: a function of the whole route descriptor.
//   - [CEL]: a compiled CEL predicate over the route descriptor.
//   - [Target]: overrides the target for the wrapped expression.
//   - [Any]: OR over a list of expressions. An empty list matches nothing.
//
// # Usage
//
//	opts := match.Options{DefaultTarget: match.TargetName}
//	expr := match.Any(match.Literal("products"), match.MustPattern("^admin"))
//	if match.Matches(loc, expr, opts) {
//	    // controller is in scope
//	}
//
// Evaluation is pure: it never mutates the route or the expression.
package match
