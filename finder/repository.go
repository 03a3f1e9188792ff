package finder

import (
	"context"
	"sort"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-repository-kit/validator"
)

// Getter is the read capability of repository.Repository used by
// RepositoryFinder.
type Getter[T any] interface {
	Get(ctx context.Context, criteria ...repository.SelectCriteria) (T, error)
}

// Lister is the list capability of repository.Repository used by
// RepositoryLister.
type Lister[T any] interface {
	List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error)
}

var _ validator.Finder[any] = (*RepositoryFinder[any])(nil)

// RepositoryFinder runs FindOneBy lookups through a go-repository-bun
// repository.
type RepositoryFinder[T any] struct {
	repo Getter[T]
}

// NewRepositoryFinder wraps repo, usually a repository.Repository[T].
func NewRepositoryFinder[T any](repo Getter[T]) *RepositoryFinder[T] {
	return &RepositoryFinder[T]{repo: repo}
}

// FindOneBy turns criteria into one equality condition per field and
// returns the first match. List values are rejected with
// ErrUnsupportedValue. Not found errors of the repository become a
// (zero, false, nil) result.
func (f *RepositoryFinder[T]) FindOneBy(ctx context.Context, criteria map[string]any) (T, bool, error) {
	var zero T
	if len(criteria) == 0 {
		return zero, false, ErrEmptyCriteria
	}
	if err := checkCriteria(criteria); err != nil {
		return zero, false, err
	}

	record, err := f.repo.Get(ctx, Criteria(criteria)...)
	if err != nil {
		if IsNotFound(err) {
			return zero, false, nil
		}
		return zero, false, err
	}
	return record, true, nil
}

// Criteria converts a field to value map into select criteria, one per
// field in name order so equal maps produce identical queries. A nil value
// matches NULL.
func Criteria(criteria map[string]any) []repository.SelectCriteria {
	fields := make([]string, 0, len(criteria))
	for field := range criteria {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]repository.SelectCriteria, 0, len(fields))
	for _, field := range fields {
		out = append(out, Where(field, criteria[field]))
	}
	return out
}

// Where builds a `field = value` condition, or `field IS NULL` for nil.
func Where(field string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if value == nil {
			return q.Where("? IS NULL", bun.Ident(field))
		}
		return q.Where("? = ?", bun.Ident(field), value)
	}
}

// RepositoryLister loads every record matching a fixed set of criteria.
type RepositoryLister[T any] struct {
	repo     Lister[T]
	criteria []repository.SelectCriteria
}

// NewRepositoryLister wraps repo. criteria apply to every List call.
func NewRepositoryLister[T any](repo Lister[T], criteria ...repository.SelectCriteria) *RepositoryLister[T] {
	return &RepositoryLister[T]{repo: repo, criteria: criteria}
}

// List returns the matching records, dropping the total count.
func (l *RepositoryLister[T]) List(ctx context.Context) ([]T, error) {
	records, _, err := l.repo.List(ctx, l.criteria...)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}
