package validator

import "context"

// NoRecordExists is valid when no record matches the candidate.
type NoRecordExists[T any] struct {
	lookup[T]
}

// NewNoRecordExists validates cfg and builds the validator.
func NewNoRecordExists[T any](cfg Config[T]) (*NoRecordExists[T], error) {
	l, err := newLookup(cfg)
	if err != nil {
		return nil, err
	}
	return &NoRecordExists[T]{lookup: l}, nil
}

// IsValid reports whether the candidate is unused.
func (v *NoRecordExists[T]) IsValid(ctx context.Context, c Candidate) (bool, error) {
	_, found, err := v.find(ctx, c)
	if err != nil {
		return false, err
	}
	if found {
		v.fail(RecordFound, c)
		return false, nil
	}
	return true, nil
}

// EditContext identifies the record being edited so that it does not count
// as a conflict with itself.
type EditContext struct {
	// Identifier of the record being edited. Takes precedence over Values.
	Identifier any

	// Values holds the submitted form values; the identifier is read from
	// Values[IdentityField] when Identifier is nil.
	Values map[string]any
}

// UniqueRecord is valid when no record matches the candidate, or when the
// only match is the record being edited.
//
// Outcomes: no match is valid, a match on the edited record is valid, a
// match on any other record is invalid with reason RecordFound.
type UniqueRecord[T any] struct {
	lookup[T]
	identityField string
	identifier    IdentifierFunc[T]
}

// NewUniqueRecord validates cfg and builds the validator.
func NewUniqueRecord[T any](cfg Config[T]) (*UniqueRecord[T], error) {
	l, err := newLookup(cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateIdentity(); err != nil {
		return nil, err
	}
	return &UniqueRecord[T]{
		lookup:        l,
		identityField: cfg.IdentityField,
		identifier:    cfg.Identifier,
	}, nil
}

// IsValid checks uniqueness of the candidate, exempting the edited record.
func (v *UniqueRecord[T]) IsValid(ctx context.Context, c Candidate, edit EditContext) (bool, error) {
	record, found, err := v.find(ctx, c)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}

	current := v.currentIdentifier(edit)
	if v.identifier != nil && current != nil && identifiersEqual(v.identifier(record), current) {
		return true, nil
	}

	v.fail(RecordFound, c)
	return false, nil
}

func (v *UniqueRecord[T]) currentIdentifier(edit EditContext) any {
	if !isNil(edit.Identifier) {
		return edit.Identifier
	}
	if v.identityField == "" || edit.Values == nil {
		return nil
	}
	id, ok := edit.Values[v.identityField]
	if !ok || isNil(id) {
		return nil
	}
	return id
}
