package finder

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSQLFinder(t *testing.T, opts ...SQLOption) (*SQLFinder, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f, err := NewSQLFinder(db, "users", opts...)
	require.NoError(t, err)
	return f, mock
}

func TestNewSQLFinder_RequiresTable(t *testing.T) {
	_, err := NewSQLFinder(nil, "  ")
	assert.ErrorIs(t, err, ErrInvalidTable)
}

func TestSQLFinder_Query(t *testing.T) {
	f, _ := newMockSQLFinder(t, WithColumns("id", "email"))

	query, args, err := f.Query(map[string]any{"email": "a@b.com", "tenant": 3})
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, email FROM users WHERE email = ? AND tenant = ? LIMIT 1", query)
	assert.Equal(t, []any{"a@b.com", 3}, args)
}

func TestSQLFinder_QueryDollar(t *testing.T) {
	f, _ := newMockSQLFinder(t, WithDollarPlaceholders())

	query, _, err := f.Query(map[string]any{"email": "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE email = $1 LIMIT 1", query)
}

func TestSQLFinder_FindOneBy_Found(t *testing.T) {
	f, mock := newMockSQLFinder(t)

	rows := sqlmock.NewRows([]string{"id", "email"}).AddRow(int64(1), []byte("a@b.com"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE email = ? LIMIT 1")).
		WithArgs("a@b.com").
		WillReturnRows(rows)

	record, found, err := f.FindOneBy(context.Background(), map[string]any{"email": "a@b.com"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(1), record["id"])
	assert.Equal(t, "a@b.com", record["email"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLFinder_FindOneBy_NotFound(t *testing.T) {
	f, mock := newMockSQLFinder(t)

	mock.ExpectQuery("SELECT \\* FROM users").
		WithArgs("missing@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	record, found, err := f.FindOneBy(context.Background(), map[string]any{"email": "missing@b.com"})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLFinder_FindOneBy_QueryError(t *testing.T) {
	f, mock := newMockSQLFinder(t)
	boom := errors.New("database is locked")

	mock.ExpectQuery("SELECT").WillReturnError(boom)

	_, found, err := f.FindOneBy(context.Background(), map[string]any{"email": "a@b.com"})
	assert.ErrorIs(t, err, boom)
	assert.False(t, found)
}

func TestSQLFinder_FindOneBy_EmptyCriteria(t *testing.T) {
	f, _ := newMockSQLFinder(t)

	_, _, err := f.FindOneBy(context.Background(), map[string]any{})
	assert.ErrorIs(t, err, ErrEmptyCriteria)
}

func TestSQLFinder_RejectsListValues(t *testing.T) {
	f, mock := newMockSQLFinder(t)

	tests := []struct {
		name  string
		value any
	}{
		{name: "string slice", value: []string{"a@b.com", "c@d.com"}},
		{name: "any slice", value: []any{1, 2}},
		{name: "array", value: [2]int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, found, err := f.FindOneBy(context.Background(), map[string]any{"email": tt.value})
			assert.ErrorIs(t, err, ErrUnsupportedValue)
			assert.False(t, found)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLFinder_QueryScalarLikeValues(t *testing.T) {
	f, _ := newMockSQLFinder(t)
	id := uuid.MustParse("6f1b7c2e-3d4a-4b8e-9a61-0c2d5e7f8a91")

	query, args, err := f.Query(map[string]any{"id": id, "token": []byte("abc")})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE id = ? AND token = ? LIMIT 1", query)
	assert.Equal(t, []any{id.String(), []byte("abc")}, args)

	query, args, err = f.Query(map[string]any{"id": (*uuid.UUID)(nil)})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE id IS NULL LIMIT 1", query)
	assert.Empty(t, args)
}
