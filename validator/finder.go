package validator

import "context"

// Finder looks up at most one record matching every criteria entry.
// found is false when no record matches; err is reserved for failures of the
// lookup itself and is propagated to the caller untouched.
type Finder[T any] interface {
	FindOneBy(ctx context.Context, criteria map[string]any) (record T, found bool, err error)
}

// FinderFunc adapts a function to Finder.
type FinderFunc[T any] func(ctx context.Context, criteria map[string]any) (T, bool, error)

// FindOneBy calls f.
func (f FinderFunc[T]) FindOneBy(ctx context.Context, criteria map[string]any) (T, bool, error) {
	return f(ctx, criteria)
}

// IdentifierFunc extracts a comparable identifier from a record.
type IdentifierFunc[T any] func(record T) any
