package form

import (
	"context"
	"iter"
	"slices"
	"sync"
)

// Element option keys handled by ObjectSelect itself.
const (
	OptionDisableInArrayValidator = "disable_inarray_validator"
	OptionLabel                   = "label"
)

// AttributeMultiple switches the element to multiple selection.
const AttributeMultiple = "multiple"

// ValueProxy is what ObjectSelect needs from its options source. Proxy
// implements it.
type ValueProxy[T any] interface {
	ValueOptions(ctx context.Context) ([]ValueOption, error)
	SetOptions(options map[string]any) error
	IdentifierOf(record T) (any, error)
}

// ObjectSelect is a select element whose options come from a ValueProxy.
//
// ValueOptions asks the proxy once per call while the local option list is
// empty and stores the result only when it is not empty, so an empty data
// source never causes repeated loading within one call.
type ObjectSelect[T any] struct {
	mu           sync.Mutex
	name         string
	proxy        ValueProxy[T]
	options      map[string]any
	attributes   map[string]any
	valueOptions []ValueOption
	optionsSet   int
	value        any
}

// NewObjectSelect returns an element named name backed by proxy.
func NewObjectSelect[T any](name string, proxy ValueProxy[T]) *ObjectSelect[T] {
	return &ObjectSelect[T]{
		name:       name,
		proxy:      proxy,
		options:    map[string]any{},
		attributes: map[string]any{},
	}
}

// Name returns the element name.
func (e *ObjectSelect[T]) Name() string {
	return e.name
}

// Proxy returns the options source.
func (e *ObjectSelect[T]) Proxy() ValueProxy[T] {
	return e.proxy
}

// SetOption sets one option. Proxy option keys are forwarded to the proxy.
func (e *ObjectSelect[T]) SetOption(key string, value any) error {
	return e.SetOptions(map[string]any{key: value})
}

// SetOptions sets element options, forwarding proxy keys to the proxy in a
// single call.
func (e *ObjectSelect[T]) SetOptions(options map[string]any) error {
	forward := map[string]any{}

	e.mu.Lock()
	for key, value := range options {
		if slices.Contains(ProxyOptionKeys, key) {
			forward[key] = value
			continue
		}
		e.options[key] = value
	}
	e.mu.Unlock()

	if len(forward) == 0 {
		return nil
	}
	return e.proxy.SetOptions(forward)
}

// Option returns an element option.
func (e *ObjectSelect[T]) Option(key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.options[key]
	return v, ok
}

// SetAttribute sets an element attribute such as "multiple".
func (e *ObjectSelect[T]) SetAttribute(key string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attributes[key] = value
}

// Attribute returns an element attribute.
func (e *ObjectSelect[T]) Attribute(key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.attributes[key]
	return v, ok
}

func (e *ObjectSelect[T]) multiple() bool {
	v, _ := e.Attribute(AttributeMultiple)
	b, _ := v.(bool)
	return b
}

// SetValueOptions replaces the option list.
func (e *ObjectSelect[T]) SetValueOptions(options []ValueOption) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.valueOptions = append([]ValueOption(nil), options...)
	e.optionsSet++
}

// ValueOptions returns the option list, fetching it from the proxy while it
// is empty.
func (e *ObjectSelect[T]) ValueOptions(ctx context.Context) ([]ValueOption, error) {
	e.mu.Lock()
	if len(e.valueOptions) > 0 {
		out := append([]ValueOption(nil), e.valueOptions...)
		e.mu.Unlock()
		return out, nil
	}
	e.mu.Unlock()

	options, err := e.proxy.ValueOptions(ctx)
	if err != nil {
		return nil, err
	}
	if len(options) > 0 {
		e.SetValueOptions(options)
	}
	return options, nil
}

// InputSpecification describes how the submitted value is filtered and
// validated. Unless disabled, an InArray validator restricts values to the
// option values.
func (e *ObjectSelect[T]) InputSpecification(ctx context.Context) (InputSpecification, error) {
	inputSpec := InputSpecification{Name: e.name, Required: true}

	if v, _ := e.Option(OptionDisableInArrayValidator); v == true {
		return inputSpec, nil
	}

	options, err := e.ValueOptions(ctx)
	if err != nil {
		return InputSpecification{}, err
	}

	haystack := make([]string, 0, len(options))
	for _, option := range options {
		haystack = append(haystack, option.Value)
	}

	inputSpec.Validators = append(inputSpec.Validators, &InArray{
		Haystack: haystack,
		Multiple: e.multiple(),
	})
	return inputSpec, nil
}

// SetValue binds value. A record becomes its identifier. With the multiple
// attribute a slice of records or an iter.Seq of records becomes the
// ordered list of identifiers. Other values are stored as given.
func (e *ObjectSelect[T]) SetValue(value any) error {
	var bound any
	var err error

	if e.multiple() {
		bound, err = e.identifiers(value)
	} else {
		bound, err = e.identifier(value)
	}
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.value = bound
	e.mu.Unlock()
	return nil
}

// Value returns the bound value.
func (e *ObjectSelect[T]) Value() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

func (e *ObjectSelect[T]) identifier(value any) (any, error) {
	if record, ok := value.(T); ok && value != nil {
		return e.proxy.IdentifierOf(record)
	}
	return value, nil
}

func (e *ObjectSelect[T]) identifiers(value any) (any, error) {
	var seq iter.Seq[any]

	switch v := value.(type) {
	case nil:
		return []any{}, nil
	case []T:
		seq = func(yield func(any) bool) {
			for _, r := range v {
				if !yield(r) {
					return
				}
			}
		}
	case iter.Seq[T]:
		seq = func(yield func(any) bool) {
			for r := range v {
				if !yield(r) {
					return
				}
			}
		}
	case []any:
		seq = slices.Values(v)
	case iter.Seq[any]:
		seq = v
	default:
		return e.identifier(value)
	}

	out := []any{}
	for item := range seq {
		id, err := e.identifier(item)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
