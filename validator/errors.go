package validator

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrInvalidConfiguration is returned by constructors when the finder is
	// missing or the field list is empty or malformed.
	ErrInvalidConfiguration = errors.New("invalid validator configuration")

	// ErrRuntimeMismatch is returned by IsValid when the candidate cannot be
	// reconciled with the configured fields.
	ErrRuntimeMismatch = errors.New("candidate does not match configured fields")
)

// Text codes attached to the go-errors wrappers.
const (
	TextCodeInvalidConfiguration = "INVALID_VALIDATOR_CONFIGURATION"
	TextCodeRuntimeMismatch      = "CANDIDATE_FIELDS_MISMATCH"
)

// MismatchError describes why a candidate could not be turned into lookup
// criteria. It unwraps to ErrRuntimeMismatch.
type MismatchError struct {
	// Field is the configured field that was missing, or the provided key
	// that is not configured. Empty for count mismatches.
	Field    string
	Provided int
	Expected int
	msg      string
}

func (e *MismatchError) Error() string {
	return e.msg
}

func (e *MismatchError) Unwrap() error {
	return ErrRuntimeMismatch
}

func countMismatch(provided, expected int) *MismatchError {
	return &MismatchError{
		Provided: provided,
		Expected: expected,
		msg: fmt.Sprintf(
			"Provided values count is %d, while expected number of fields to be matched is %d",
			provided, expected,
		),
	}
}

func missingField(field string, provided, expected int) *MismatchError {
	return &MismatchError{
		Field:    field,
		Provided: provided,
		Expected: expected,
		msg: fmt.Sprintf(
			"Field \"%s\" was not provided, but was expected since the configured field lists needs it for validation",
			field,
		),
	}
}

func unexpectedField(field string, provided, expected int) *MismatchError {
	return &MismatchError{
		Field:    field,
		Provided: provided,
		Expected: expected,
		msg: fmt.Sprintf(
			"Field \"%s\" was provided, but is not part of the configured field list",
			field,
		),
	}
}

// configurationError wraps cause so that errors.Is(err, ErrInvalidConfiguration)
// holds, and tags it with the bad input category.
func configurationError(cause error, message string) error {
	src := ErrInvalidConfiguration
	if cause != nil {
		src = fmt.Errorf("%w: %w", ErrInvalidConfiguration, cause)
	}
	return goerrors.Wrap(src, goerrors.CategoryBadInput, message).
		WithTextCode(TextCodeInvalidConfiguration)
}
