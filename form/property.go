package form

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// readProperty reads name from record. With isMethod the exported method of
// that name is called; otherwise the struct field matching name without
// regard to case is read.
func readProperty(record any, name string, isMethod bool) (any, error) {
	rv := reflect.ValueOf(record)
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: %q on nil record", ErrPropertyNotFound, name)
	}

	if isMethod {
		m := rv.MethodByName(exportedName(name))
		if !m.IsValid() || m.Type().NumIn() != 0 || m.Type().NumOut() == 0 {
			return nil, fmt.Errorf("%w: method %q on %T", ErrPropertyNotFound, name, record)
		}
		return m.Call(nil)[0].Interface(), nil
	}

	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: %q on nil record", ErrPropertyNotFound, name)
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		field := rv.FieldByNameFunc(func(f string) bool {
			return strings.EqualFold(f, name) || strings.EqualFold(f, strings.ReplaceAll(name, "_", ""))
		})
		if field.IsValid() && field.CanInterface() {
			return field.Interface(), nil
		}
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
			if v.IsValid() {
				return v.Interface(), nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %q on %T", ErrPropertyNotFound, name, record)
}

func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
