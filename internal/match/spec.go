package match

import (
	"fmt"

	"github.com/vyrodovalexey/routable/internal/util"
)

// Spec is the declarative form of an expression, as found in
// configuration files. Exactly one of Literal, Pattern, CEL or Any must be
// set. Target optionally overrides the default target.
type Spec struct {
	Literal string `yaml:"literal,omitempty" json:"literal,omitempty"`
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	CEL     string `yaml:"cel,omitempty" json:"cel,omitempty"`
	Any     []Spec `yaml:"any,omitempty" json:"any,omitempty"`
	Target  Target `yaml:"target,omitempty" json:"target,omitempty"`
}

// Compile turns a Spec into an Expression.
func Compile(spec Spec) (Expression, error) {
	expr, err := compileForm(spec)
	if err != nil {
		return nil, err
	}
	if spec.Target != "" {
		return Targeted(spec.Target, expr), nil
	}
	return expr, nil
}

// CompileAll compiles a list of specs into a List.
func CompileAll(specs []Spec) (List, error) {
	out := make(List, 0, len(specs))
	for i, s := range specs {
		expr, err := Compile(s)
		if err != nil {
			return nil, util.NewConfigErrorWithCause(
				fmt.Sprintf("match[%d]", i), "invalid match expression", err)
		}
		out = append(out, expr)
	}
	return out, nil
}

func compileForm(spec Spec) (Expression, error) {
	forms := 0
	for _, set := range []bool{spec.Literal != "", spec.Pattern != "", spec.CEL != "", spec.Any != nil} {
		if set {
			forms++
		}
	}
	if forms != 1 {
		return nil, util.NewConfigError("match", "exactly one of literal, pattern, cel or any must be set")
	}

	switch {
	case spec.Literal != "":
		return Literal(spec.Literal), nil
	case spec.Pattern != "":
		p, err := CompilePattern(spec.Pattern)
		if err != nil {
			return nil, util.NewConfigErrorWithCause("match.pattern", "invalid regular expression", err)
		}
		return p, nil
	case spec.CEL != "":
		c, err := CEL(spec.CEL)
		if err != nil {
			return nil, util.NewConfigErrorWithCause("match.cel", "invalid CEL expression", err)
		}
		return c, nil
	default:
		return CompileAll(spec.Any)
	}
}
