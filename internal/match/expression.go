package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vyrodovalexey/routable/internal/route"
)

// Target selects the route field a match expression is compared with.
type Target string

const (
	// TargetName compares with the route name.
	TargetName Target = "name"
	// TargetNameChain compares with the joined ancestor names.
	TargetNameChain Target = "name-chain"
	// TargetPath compares with the route path.
	TargetPath Target = "path"
)

// DefaultSeparator joins ancestor names in a name chain.
const DefaultSeparator = "."

// ChainResolver resolves the name chain of a named route.
type ChainResolver interface {
	NameChain(name string) (string, bool)
}

// Options carries the process-wide evaluation settings.
type Options struct {
	// DefaultTarget is used by expressions without an explicit target.
	DefaultTarget Target

	// Chains resolves the name-chain target. Nil disables it.
	Chains ChainResolver
}

// WithTarget returns a copy of the options with a different default target.
// An empty target leaves the options unchanged.
func (o Options) WithTarget(t Target) Options {
	if t != "" {
		o.DefaultTarget = t
	}
	return o
}

func (o Options) target() Target {
	if o.DefaultTarget == "" {
		return TargetName
	}
	return o.DefaultTarget
}

// Expression is a route match expression.
type Expression interface {
	// Matches reports whether the route matches the expression.
	Matches(loc route.Location, opts Options) bool

	// String returns a description for logs and inspection.
	String() string
}

// Matches evaluates expr against loc. A nil expression matches nothing.
func Matches(loc route.Location, expr Expression, opts Options) bool {
	if expr == nil {
		return false
	}
	return expr.Matches(loc, opts)
}

// Literal matches the target value exactly.
type Literal string

// Matches implements Expression.
func (l Literal) Matches(loc route.Location, opts Options) bool {
	target := opts.target()
	value, ok := resolveString(loc, target, opts)
	if !ok {
		return false
	}
	if target == TargetPath && HasPlaceholders(string(l)) {
		return compilePathLiteral(string(l)).MatchString(value)
	}
	return value == string(l)
}

// String implements Expression.
func (l Literal) String() string {
	return fmt.Sprintf("%q", string(l))
}

// PatternExpression tests a regular expression against the target value.
type PatternExpression struct {
	re *regexp.Regexp
}

// Pattern wraps a compiled regular expression.
func Pattern(re *regexp.Regexp) PatternExpression {
	return PatternExpression{re: re}
}

// CompilePattern compiles a regular expression through the shared cache.
func CompilePattern(pattern string) (PatternExpression, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return PatternExpression{}, err
	}
	return PatternExpression{re: re}, nil
}

// MustPattern is like CompilePattern but panics on an invalid pattern.
func MustPattern(pattern string) PatternExpression {
	p, err := CompilePattern(pattern)
	if err != nil {
		panic(fmt.Sprintf("match: invalid pattern %q: %v", pattern, err))
	}
	return p
}

// Matches implements Expression.
func (p PatternExpression) Matches(loc route.Location, opts Options) bool {
	if p.re == nil {
		return false
	}
	value, ok := resolveText(loc, opts.target(), opts)
	if !ok {
		return false
	}
	return p.re.MatchString(value)
}

// String implements Expression.
func (p PatternExpression) String() string {
	if p.re == nil {
		return "/<nil>/"
	}
	return "/" + p.re.String() + "/"
}

// Predicate is evaluated with the whole route descriptor.
type Predicate func(loc route.Location) bool

// Matches implements Expression.
func (f Predicate) Matches(loc route.Location, _ Options) bool {
	if f == nil {
		return false
	}
	return f(loc)
}

// String implements Expression.
func (f Predicate) String() string {
	return "predicate"
}

// TargetedExpression evaluates an expression with an explicit target.
type TargetedExpression struct {
	Target     Target
	Expression Expression
}

// Targeted wraps expr so it is evaluated against target instead of the
// default target.
func Targeted(target Target, expr Expression) TargetedExpression {
	return TargetedExpression{Target: target, Expression: expr}
}

// Matches implements Expression.
func (t TargetedExpression) Matches(loc route.Location, opts Options) bool {
	return Matches(loc, t.Expression, opts.WithTarget(t.Target))
}

// String implements Expression.
func (t TargetedExpression) String() string {
	inner := "<nil>"
	if t.Expression != nil {
		inner = t.Expression.String()
	}
	return string(t.Target) + ":" + inner
}

// List matches if any of its expressions matches.
type List []Expression

// Any builds a List.
func Any(exprs ...Expression) List {
	return List(exprs)
}

// Matches implements Expression.
func (l List) Matches(loc route.Location, opts Options) bool {
	for _, expr := range l {
		if Matches(loc, expr, opts) {
			return true
		}
	}
	return false
}

// String implements Expression.
func (l List) String() string {
	parts := make([]string, 0, len(l))
	for _, expr := range l {
		if expr != nil {
			parts = append(parts, expr.String())
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

var (
	_ Expression = Literal("")
	_ Expression = PatternExpression{}
	_ Expression = Predicate(nil)
	_ Expression = TargetedExpression{}
	_ Expression = List(nil)
)
