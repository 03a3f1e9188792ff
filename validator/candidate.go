package validator

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags the shape of a Candidate.
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindMap
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMap:
		return "map"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Candidate is the value under validation: a single scalar, a mapping of
// field name to value, or an ordered sequence of values.
type Candidate struct {
	kind    Kind
	scalar  any
	mapping map[string]any
	seq     []any
}

// Scalar wraps a single value. It only matches a single configured field.
func Scalar(v any) Candidate {
	return Candidate{kind: KindScalar, scalar: v}
}

// Map wraps a field name to value mapping. Its keys must equal the
// configured fields.
func Map(m map[string]any) Candidate {
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Candidate{kind: KindMap, mapping: cp}
}

// Sequence wraps positional values, zipped with the configured fields.
func Sequence(values ...any) Candidate {
	return Candidate{kind: KindSequence, seq: append([]any(nil), values...)}
}

// CandidateOf picks a variant for loosely typed input coming from form
// submissions or command line arguments.
func CandidateOf(v any) Candidate {
	switch t := v.(type) {
	case Candidate:
		return t
	case map[string]any:
		return Map(t)
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return Map(m)
	case []any:
		return Sequence(t...)
	case []string:
		values := make([]any, len(t))
		for i, s := range t {
			values[i] = s
		}
		return Sequence(values...)
	default:
		return Scalar(v)
	}
}

// Kind returns the candidate variant.
func (c Candidate) Kind() Kind {
	return c.kind
}

// Value returns the wrapped value in its original form.
func (c Candidate) Value() any {
	switch c.kind {
	case KindMap:
		return c.mapping
	case KindSequence:
		return c.seq
	default:
		return c.scalar
	}
}

// String renders the candidate for message templates.
func (c Candidate) String() string {
	switch c.kind {
	case KindMap:
		keys := make([]string, 0, len(c.mapping))
		for k := range c.mapping {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, c.mapping[k])
		}
		return strings.Join(parts, ", ")
	case KindSequence:
		parts := make([]string, len(c.seq))
		for i, v := range c.seq {
			parts[i] = fmt.Sprint(v)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(c.scalar)
	}
}

// Criteria turns the candidate into the field to value mapping handed to a
// Finder. Shape mismatches return a *MismatchError.
func (c Candidate) Criteria(fields Fields) (map[string]any, error) {
	expected := fields.Len()

	switch c.kind {
	case KindMap:
		for _, name := range fields.names {
			if _, ok := c.mapping[name]; !ok {
				return nil, missingField(name, len(c.mapping), expected)
			}
		}
		if len(c.mapping) != expected {
			return nil, unexpectedField(c.firstUnknownKey(fields), len(c.mapping), expected)
		}
		criteria := make(map[string]any, expected)
		for _, name := range fields.names {
			criteria[name] = c.mapping[name]
		}
		return criteria, nil

	case KindSequence:
		if len(c.seq) != expected {
			return nil, countMismatch(len(c.seq), expected)
		}
		criteria := make(map[string]any, expected)
		for i, name := range fields.names {
			criteria[name] = c.seq[i]
		}
		return criteria, nil

	case KindScalar:
		if expected != 1 {
			return nil, countMismatch(1, expected)
		}
		return map[string]any{fields.names[0]: c.scalar}, nil

	default:
		return nil, countMismatch(0, expected)
	}
}

func (c Candidate) firstUnknownKey(fields Fields) string {
	keys := make([]string, 0, len(c.mapping))
	for k := range c.mapping {
		if !fields.Has(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
