package repositorycache

import (
	"reflect"
	"strings"
	"unicode"
)

// Namespace returns the cache namespace for records of type T: the
// snake_case name of T with pointers dereferenced and generic arguments
// stripped, e.g. *UserAccount becomes "user_account".
func Namespace[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		name = t.Kind().String()
	}
	return toSnake(name)
}

// toSnake converts s to snake_case. Every rune that is not a letter or a
// digit collapses into a single underscore so namespaces stay usable as key
// prefixes.
func toSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	underscore := func() bool {
		if b.Len() == 0 {
			return false
		}
		str := b.String()
		return str[len(str)-1] == '_'
	}

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && !underscore() {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLower(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i > 0 && unicode.IsLetter(runes[i-1]) && !underscore() {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			if b.Len() > 0 && !underscore() {
				b.WriteByte('_')
			}
		}
	}

	return strings.Trim(b.String(), "_")
}
