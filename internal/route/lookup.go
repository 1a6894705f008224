package route

import (
	"reflect"
	"strings"
)

// Lookup resolves a dotted path against a value. Each segment selects an
// exported struct field (by `route` tag or case-insensitive field name) or
// a key of a string-keyed map. Lookup returns nil if any segment is
// missing. An empty path returns the value itself.
func Lookup(value any, path string) any {
	if path == "" {
		return value
	}

	current := reflect.ValueOf(value)
	for _, segment := range strings.Split(path, ".") {
		next, ok := step(current, segment)
		if !ok {
			return nil
		}
		current = next
	}

	if !current.IsValid() || !current.CanInterface() {
		return nil
	}
	return current.Interface()
}

// LookupString resolves a dotted path and returns it as a string. Values
// that are not strings yield ok == false.
func LookupString(value any, path string) (s string, ok bool) {
	s, ok = Lookup(value, path).(string)
	return s, ok
}

func step(v reflect.Value, segment string) (reflect.Value, bool) {
	v = indirect(v)
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		item := v.MapIndex(reflect.ValueOf(segment).Convert(v.Type().Key()))
		if !item.IsValid() {
			return reflect.Value{}, false
		}
		return item, true
	case reflect.Struct:
		return structField(v, segment)
	default:
		return reflect.Value{}, false
	}
}

func structField(v reflect.Value, segment string) (reflect.Value, bool) {
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if tag := field.Tag.Get("route"); tag == segment || strings.EqualFold(field.Name, segment) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
