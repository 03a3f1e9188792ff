package form

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrInvalidOption is returned when an option has the wrong type or a
	// required option is missing.
	ErrInvalidOption = errors.New("invalid form element option")

	// ErrLabelUnavailable is returned when a record label cannot be built:
	// no label generator, no property and the record is not a fmt.Stringer.
	ErrLabelUnavailable = errors.New("record label unavailable")

	// ErrPropertyNotFound is returned when a configured property or method
	// does not exist on the record.
	ErrPropertyNotFound = errors.New("record property not found")

	// ErrIdentifierUnavailable is returned when no identifier can be read
	// from a record.
	ErrIdentifierUnavailable = errors.New("record identifier unavailable")
)

func optionError(key string, want string, got any) error {
	return goerrors.Wrap(
		fmt.Errorf("%w: %q expects %s, %T given", ErrInvalidOption, key, want, got),
		goerrors.CategoryBadInput,
		"invalid option "+key,
	).WithTextCode("INVALID_FORM_OPTION")
}
