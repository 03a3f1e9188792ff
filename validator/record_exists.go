package validator

import "context"

// RecordExists is valid when the finder returns a record for the candidate.
//
// A RecordExists keeps the messages of its last call, so one instance must
// not be shared by concurrent IsValid calls without external locking.
type RecordExists[T any] struct {
	lookup[T]
}

// NewRecordExists validates cfg and builds the validator.
func NewRecordExists[T any](cfg Config[T]) (*RecordExists[T], error) {
	l, err := newLookup(cfg)
	if err != nil {
		return nil, err
	}
	return &RecordExists[T]{lookup: l}, nil
}

// IsValid reports whether a record matching the candidate exists. Shape
// mismatches and finder failures are returned as errors.
func (v *RecordExists[T]) IsValid(ctx context.Context, c Candidate) (bool, error) {
	_, found, err := v.find(ctx, c)
	if err != nil {
		return false, err
	}
	if !found {
		v.fail(NoRecordFound, c)
		return false, nil
	}
	return true, nil
}
