package finder

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/goliatone/go-repository-kit/validator"
)

var _ validator.Finder[map[string]any] = (*SQLFinder)(nil)

// SQLFinder looks up rows of a single table and returns them as column to
// value maps.
type SQLFinder struct {
	db      *sql.DB
	table   string
	columns []string
	builder sq.StatementBuilderType
}

// SQLOption customizes a SQLFinder.
type SQLOption func(*SQLFinder)

// WithColumns restricts the selected columns. Defaults to "*".
func WithColumns(columns ...string) SQLOption {
	return func(f *SQLFinder) {
		if len(columns) > 0 {
			f.columns = columns
		}
	}
}

// WithDollarPlaceholders switches to $n placeholders, as postgres expects.
func WithDollarPlaceholders() SQLOption {
	return func(f *SQLFinder) {
		f.builder = f.builder.PlaceholderFormat(sq.Dollar)
	}
}

// NewSQLFinder builds a finder over table.
func NewSQLFinder(db *sql.DB, table string, opts ...SQLOption) (*SQLFinder, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, ErrInvalidTable
	}

	f := &SQLFinder{
		db:      db,
		table:   table,
		columns: []string{"*"},
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Table returns the queried table.
func (f *SQLFinder) Table() string {
	return f.table
}

// Query returns the statement and arguments FindOneBy runs for criteria.
// List values are rejected with ErrUnsupportedValue.
func (f *SQLFinder) Query(criteria map[string]any) (string, []any, error) {
	if err := checkCriteria(criteria); err != nil {
		return "", nil, err
	}
	values, err := driverValues(criteria)
	if err != nil {
		return "", nil, err
	}

	query, args, err := f.builder.
		Select(f.columns...).
		From(f.table).
		Where(sq.Eq(values)).
		Limit(1).
		ToSql()
	if err != nil {
		return "", nil, queryError(err, "failed to build lookup query")
	}
	return query, args, nil
}

// FindOneBy returns the first row matching every criteria entry.
func (f *SQLFinder) FindOneBy(ctx context.Context, criteria map[string]any) (map[string]any, bool, error) {
	if len(criteria) == 0 {
		return nil, false, ErrEmptyCriteria
	}

	query, args, err := f.Query(criteria)
	if err != nil {
		return nil, false, err
	}

	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, queryError(err, "lookup query on "+f.table+" failed")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, false, queryError(err, "lookup query on "+f.table+" failed")
		}
		return nil, false, nil
	}

	record, err := scanMap(rows)
	if err != nil {
		return nil, false, queryError(err, "failed to scan "+f.table+" row")
	}
	return record, true, nil
}

func scanMap(rows *sql.Rows) (map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, err
	}

	record := make(map[string]any, len(columns))
	for i, column := range columns {
		if b, ok := values[i].([]byte); ok {
			record[column] = string(b)
			continue
		}
		record[column] = values[i]
	}
	return record, nil
}
