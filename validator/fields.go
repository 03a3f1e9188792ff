package validator

import (
	"fmt"
	"strings"
)

// Fields is the ordered, unique list of field names a candidate is matched
// against. The zero value is not usable; build one with ParseFields.
type Fields struct {
	names []string
	index map[string]int
}

// ParseFields builds Fields from a single name, a []string, a []any holding
// strings, or an existing Fields value.
func ParseFields(spec any) (Fields, error) {
	var raw []string

	switch v := spec.(type) {
	case Fields:
		if v.Len() == 0 {
			return Fields{}, configurationError(nil, "fields must not be empty")
		}
		return v, nil
	case string:
		raw = []string{v}
	case []string:
		raw = v
	case []any:
		raw = make([]string, 0, len(v))
		for i, item := range v {
			name, ok := item.(string)
			if !ok {
				return Fields{}, configurationError(
					fmt.Errorf("field at position %d is %T", i, item),
					"fields must be strings",
				)
			}
			raw = append(raw, name)
		}
	case nil:
		return Fields{}, configurationError(nil, "fields are required")
	default:
		return Fields{}, configurationError(
			fmt.Errorf("unsupported fields type %T", spec),
			"fields must be a string or a list of strings",
		)
	}

	return newFields(raw)
}

// MustFields is like ParseFields but panics on error. Meant for package level
// declarations and tests.
func MustFields(names ...string) Fields {
	f, err := newFields(names)
	if err != nil {
		panic(err)
	}
	return f
}

func newFields(raw []string) (Fields, error) {
	if len(raw) == 0 {
		return Fields{}, configurationError(nil, "fields must not be empty")
	}

	f := Fields{
		names: make([]string, 0, len(raw)),
		index: make(map[string]int, len(raw)),
	}

	for i, name := range raw {
		if strings.TrimSpace(name) == "" {
			return Fields{}, configurationError(
				fmt.Errorf("field at position %d is empty", i),
				"field names must not be empty",
			)
		}
		if _, dup := f.index[name]; dup {
			return Fields{}, configurationError(
				fmt.Errorf("field %q is listed twice", name),
				"field names must be unique",
			)
		}
		f.index[name] = len(f.names)
		f.names = append(f.names, name)
	}

	return f, nil
}

// Names returns a copy of the field names in configured order.
func (f Fields) Names() []string {
	return append([]string(nil), f.names...)
}

// Len returns the number of configured fields.
func (f Fields) Len() int {
	return len(f.names)
}

// Has reports whether name is configured.
func (f Fields) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

func (f Fields) String() string {
	return strings.Join(f.names, ",")
}
