package match

import (
	"fmt"
	"maps"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/vyrodovalexey/routable/internal/route"
)

// CELExpression is a route predicate written in the Common Expression
// Language. The route is exposed as the variable "route" with the keys
// name, path, fullPath, meta, params and query.
//
//	route.meta.requiresAuth == true && route.name.startsWith("admin")
type CELExpression struct {
	source  string
	program cel.Program
}

var (
	celEnvOnce sync.Once
	celEnv     *cel.Env
	celEnvErr  error

	celProgramsMu sync.Mutex
	celPrograms   = make(map[string]cel.Program)
)

// createCELEnvironment creates the CEL environment with the route variable.
func createCELEnvironment() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("route", cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return celEnv, celEnvErr
}

// CEL compiles a CEL predicate. Compiled programs are cached by source.
func CEL(source string) (CELExpression, error) {
	celProgramsMu.Lock()
	program, ok := celPrograms[source]
	celProgramsMu.Unlock()
	if ok {
		return CELExpression{source: source, program: program}, nil
	}

	env, err := createCELEnvironment()
	if err != nil {
		return CELExpression{}, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return CELExpression{}, fmt.Errorf("failed to compile expression: %w", issues.Err())
	}

	program, err = env.Program(ast)
	if err != nil {
		return CELExpression{}, fmt.Errorf("failed to create program: %w", err)
	}

	celProgramsMu.Lock()
	celPrograms[source] = program
	celProgramsMu.Unlock()

	return CELExpression{source: source, program: program}, nil
}

// MustCEL is like CEL but panics if the expression does not compile.
func MustCEL(source string) CELExpression {
	expr, err := CEL(source)
	if err != nil {
		panic(fmt.Sprintf("match: %v", err))
	}
	return expr
}

// Matches implements Expression. Evaluation errors and non-boolean
// results count as no match.
func (c CELExpression) Matches(loc route.Location, _ Options) bool {
	if c.program == nil {
		return false
	}

	result, _, err := c.program.Eval(map[string]any{
		"route": celRoute(loc),
	})
	if err != nil {
		return false
	}

	matched, ok := result.Value().(bool)
	return ok && matched
}

// String implements Expression.
func (c CELExpression) String() string {
	return "cel(" + c.source + ")"
}

func celRoute(loc route.Location) map[string]any {
	meta := make(map[string]any, len(loc.Meta))
	maps.Copy(meta, loc.Meta)

	return map[string]any{
		"name":     loc.Name,
		"path":     loc.Path,
		"fullPath": loc.FullPath,
		"meta":     meta,
		"params":   stringMap(loc.Params),
		"query":    stringMap(loc.Query),
	}
}

func stringMap(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var _ Expression = CELExpression{}
