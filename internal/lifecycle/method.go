package lifecycle

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vyrodovalexey/routable/internal/util"
)

// Shape is the accepted result list of a bound method.
type Shape int

const (
	// ShapeOutcome methods return (Outcome, error).
	ShapeOutcome Shape = iota + 1
	// ShapeError methods return error only.
	ShapeError
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
	outcomeType = reflect.TypeFor[Outcome]()
)

// Method is a controller method bound by name.
type Method struct {
	Class string
	Name  string

	fn     reflect.Value
	params []reflect.Type
	shape  Shape
}

// ClassOf returns the type name of a controller, without package path or
// pointer marker.
func ClassOf(obj any) string {
	t := reflect.TypeOf(obj)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

// Bind looks up an exported method on obj and validates its signature.
func Bind(obj any, name string) (Method, error) {
	class := ClassOf(obj)
	field := class + "." + name

	v := reflect.ValueOf(obj)
	if !v.IsValid() {
		return Method{}, util.NewConfigError(field, "controller is nil")
	}

	fn := v.MethodByName(name)
	if !fn.IsValid() {
		return Method{}, util.NewConfigError(field, "method not found or not exported")
	}

	t := fn.Type()
	if t.IsVariadic() {
		return Method{}, util.NewConfigError(field, "variadic handlers are not supported")
	}
	if t.NumIn() == 0 || t.In(0) != contextType {
		return Method{}, util.NewConfigError(field, "first parameter must be context.Context")
	}

	shape, err := shapeOf(t)
	if err != nil {
		return Method{}, util.NewConfigErrorWithCause(field, "unsupported handler signature", err)
	}

	params := make([]reflect.Type, 0, t.NumIn()-1)
	for i := 1; i < t.NumIn(); i++ {
		params = append(params, t.In(i))
	}

	return Method{
		Class:  class,
		Name:   name,
		fn:     fn,
		params: params,
		shape:  shape,
	}, nil
}

func shapeOf(t reflect.Type) (Shape, error) {
	switch {
	case t.NumOut() == 2 && t.Out(0) == outcomeType && t.Out(1) == errorType:
		return ShapeOutcome, nil
	case t.NumOut() == 1 && t.Out(0) == errorType:
		return ShapeError, nil
	default:
		return 0, fmt.Errorf("results must be (lifecycle.Outcome, error) or error, got %s", t)
	}
}

// Shape returns the result shape of the method.
func (m Method) Shape() Shape {
	return m.shape
}

// Arity returns the number of injectable parameters, excluding the context.
func (m Method) Arity() int {
	return len(m.params)
}

// Call invokes the method with ctx and the resolved arguments. Missing
// trailing arguments and nil arguments become zero values. An argument
// that cannot be assigned to its parameter is a configuration error. An
// error-only method yields the zero Outcome on success.
func (m Method) Call(ctx context.Context, args []any) (Outcome, error) {
	if !m.fn.IsValid() {
		return Outcome{}, util.NewConfigError(m.Class+"."+m.Name, "method is not bound")
	}
	if len(args) > len(m.params) {
		return Outcome{}, util.NewConfigError(m.Class+"."+m.Name,
			fmt.Sprintf("%d arguments declared but method accepts %d", len(args), len(m.params)))
	}

	if ctx == nil {
		ctx = context.Background()
	}

	in := make([]reflect.Value, 0, len(m.params)+1)
	in = append(in, reflect.ValueOf(ctx))
	for i, pt := range m.params {
		var arg any
		if i < len(args) {
			arg = args[i]
		}
		v, err := convertArg(arg, pt)
		if err != nil {
			return Outcome{}, util.NewConfigErrorWithCause(
				fmt.Sprintf("%s.%s[%d]", m.Class, m.Name, i), "argument not assignable", err)
		}
		in = append(in, v)
	}

	out := m.fn.Call(in)

	switch m.shape {
	case ShapeOutcome:
		o, _ := out[0].Interface().(Outcome)
		return o, asError(out[1])
	default:
		return Outcome{}, asError(out[0])
	}
}

func convertArg(arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(pt), nil
	}

	v := reflect.ValueOf(arg)
	switch {
	case v.Type().AssignableTo(pt):
		return v, nil
	case v.Kind() == pt.Kind() && v.Type().ConvertibleTo(pt):
		return v.Convert(pt), nil
	default:
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), pt)
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	err, _ := v.Interface().(error)
	return err
}
