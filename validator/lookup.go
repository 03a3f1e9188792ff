package validator

import (
	"context"
	"fmt"
	"reflect"

	"github.com/goliatone/go-repository-kit/pkg/logger"
)

// lookup holds what every repository backed validator shares: the finder,
// the field list, the templates and the messages of the last call.
type lookup[T any] struct {
	finder    Finder[T]
	fields    Fields
	templates map[Reason]string
	messages  map[Reason]string
	logger    *logger.Logger
}

func newLookup[T any](cfg Config[T]) (lookup[T], error) {
	if err := cfg.Validate(); err != nil {
		return lookup[T]{}, err
	}

	fields, err := ParseFields(cfg.Fields)
	if err != nil {
		return lookup[T]{}, err
	}

	return lookup[T]{
		finder:    cfg.Finder,
		fields:    fields,
		templates: mergeTemplates(cfg.Messages),
		messages:  map[Reason]string{},
		logger:    logger.OrNop(cfg.Logger),
	}, nil
}

// find resets the last messages, normalizes the candidate and queries the
// finder.
func (l *lookup[T]) find(ctx context.Context, c Candidate) (T, bool, error) {
	l.messages = map[Reason]string{}

	criteria, err := c.Criteria(l.fields)
	if err != nil {
		l.logger.Debug().
			Err(err).
			Str("fields", l.fields.String()).
			Str("candidate_kind", c.Kind().String()).
			Msg("candidate does not match fields")
		var zero T
		return zero, false, err
	}

	record, found, err := l.finder.FindOneBy(ctx, criteria)
	if err != nil {
		var zero T
		return zero, false, err
	}

	l.logger.Debug().
		Str("fields", l.fields.String()).
		Bool("found", found).
		Msg("repository lookup")

	return record, found, nil
}

func (l *lookup[T]) fail(reason Reason, c Candidate) {
	l.messages[reason] = renderMessage(l.templates[reason], c)
}

// Fields returns the configured fields.
func (l *lookup[T]) Fields() Fields {
	return l.fields
}

// Messages returns the reason to message map produced by the last call.
// Empty after a successful call.
func (l *lookup[T]) Messages() map[Reason]string {
	return copyMessages(l.messages)
}

// MessageTemplates returns the templates used to build messages.
func (l *lookup[T]) MessageTemplates() map[Reason]string {
	return copyMessages(l.templates)
}

// identifiersEqual compares identifiers by value: identical values match,
// and values of different types match when they render to the same string
// (e.g. int64(7) and "7", or a uuid.UUID and its canonical string).
// Pointers are compared by the values they point to.
func identifiersEqual(a, b any) bool {
	a, b = deref(a), deref(b)
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	if reflect.DeepEqual(a, b) {
		return true
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// deref follows non-nil pointers down to the value they hold.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() || !rv.CanInterface() {
		return v
	}
	return rv.Interface()
}
