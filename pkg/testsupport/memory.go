package testsupport

import (
	"context"
	"maps"
	"reflect"
	"sync"

	"github.com/goliatone/go-repository-kit/validator"
)

var _ validator.Finder[any] = (*MemoryFinder[any])(nil)

// FieldFunc reads a named field from a record. ok is false when the record
// has no such field.
type FieldFunc[T any] func(record T, field string) (value any, ok bool)

// MemoryFinder answers FindOneBy from a fixed record slice and counts calls,
// so tests can tell cache hits from repository lookups.
type MemoryFinder[T any] struct {
	mu      sync.RWMutex
	records []T
	field   FieldFunc[T]
	err     error
	calls   []map[string]any
}

// NewMemoryFinder returns a finder over records using field to read values.
func NewMemoryFinder[T any](field FieldFunc[T], records ...T) *MemoryFinder[T] {
	return &MemoryFinder[T]{records: records, field: field}
}

// NewMapFinder returns a finder over rows keyed by column name.
func NewMapFinder(rows ...map[string]any) *MemoryFinder[map[string]any] {
	return NewMemoryFinder(func(row map[string]any, field string) (any, bool) {
		v, ok := row[field]
		return v, ok
	}, rows...)
}

// FindOneBy returns the first record whose fields equal every criteria
// value.
func (m *MemoryFinder[T]) FindOneBy(ctx context.Context, criteria map[string]any) (T, bool, error) {
	m.mu.Lock()
	m.calls = append(m.calls, maps.Clone(criteria))
	err := m.err
	m.mu.Unlock()

	var zero T
	if err != nil {
		return zero, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.records {
		if m.matches(record, criteria) {
			return record, true, nil
		}
	}
	return zero, false, nil
}

func (m *MemoryFinder[T]) matches(record T, criteria map[string]any) bool {
	for field, want := range criteria {
		got, ok := m.field(record, field)
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// Add appends records.
func (m *MemoryFinder[T]) Add(records ...T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
}

// Fail makes every following lookup return err. A nil err restores normal
// behavior.
func (m *MemoryFinder[T]) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of lookups so far.
func (m *MemoryFinder[T]) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

// LastCriteria returns the criteria of the latest lookup, or nil.
func (m *MemoryFinder[T]) LastCriteria() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}
