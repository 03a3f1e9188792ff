package form

import (
	"slices"
)

// InputValidator validates a submitted value.
type InputValidator interface {
	IsValid(value any) bool
}

// InputSpecification is what a form input filter needs to know about an
// element.
type InputSpecification struct {
	Name       string
	Required   bool
	Validators []InputValidator
}

// InArray accepts values whose string form is one of Haystack. With Multiple
// every element of a slice value must be in Haystack.
type InArray struct {
	Haystack []string
	Multiple bool
}

// IsValid reports whether value is in the haystack.
func (v *InArray) IsValid(value any) bool {
	if !v.Multiple {
		return slices.Contains(v.Haystack, stringify(value))
	}

	var items []any
	switch t := value.(type) {
	case []any:
		items = t
	case []string:
		for _, s := range t {
			items = append(items, s)
		}
	default:
		items = []any{value}
	}

	for _, item := range items {
		if !slices.Contains(v.Haystack, stringify(item)) {
			return false
		}
	}
	return true
}
