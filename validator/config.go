package validator

import (
	"reflect"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-repository-kit/pkg/logger"
)

// Config configures the repository backed validators.
type Config[T any] struct {
	// Finder is the repository capability queried on every call. Required.
	Finder Finder[T]

	// Fields is a field name or a list of field names. Required.
	Fields any

	// Messages overrides the default templates per reason.
	Messages map[Reason]string

	// IdentityField names the candidate/context value holding the identifier
	// of the record being edited. UniqueRecord only.
	IdentityField string

	// Identifier extracts the identifier from a found record. Required by
	// UniqueRecord when IdentityField is set.
	Identifier IdentifierFunc[T]

	Logger *logger.Logger
}

// Validate checks the configuration without building a validator.
func (c Config[T]) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Finder, validation.By(requirePresent("finder"))),
		validation.Field(&c.Fields, validation.By(func(value any) error {
			_, err := ParseFields(value)
			return err
		})),
	)
	if err != nil {
		return configurationError(err, "invalid validator configuration")
	}
	return nil
}

func (c Config[T]) validateIdentity() error {
	if c.IdentityField != "" && c.Identifier == nil {
		return configurationError(nil, "identifier extractor is required when identity field is set")
	}
	return nil
}

func requirePresent(name string) validation.RuleFunc {
	return func(value any) error {
		if isNil(value) {
			return validation.NewError("validation_required", name+" is required")
		}
		return nil
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
