package testsupport

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-repository-kit/internal/store"
)

// User is the model stored by UserStore.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        uuid.UUID `bun:"id,pk,type:varchar(36)" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Role      string    `bun:"role" json:"role"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// UserField reads a User column by name for MemoryFinder.
func UserField(u User, field string) (any, bool) {
	switch field {
	case "id":
		return u.ID, true
	case "name":
		return u.Name, true
	case "email":
		return u.Email, true
	case "role":
		return u.Role, true
	}
	return nil, false
}

// OpenSQLite opens a private in-memory SQLite database for the test and
// closes it on cleanup.
func OpenSQLite(t *testing.T) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := store.Open(context.Background(), store.Config{
		Driver: store.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}, nil)
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// UserStore is a bun backed store with the read surface of
// repository.Repository[User].
type UserStore struct {
	db *bun.DB
}

// NewUserStore creates the users table and inserts users.
func NewUserStore(t *testing.T, db *bun.DB, users ...User) *UserStore {
	t.Helper()

	ctx := context.Background()
	if _, err := db.NewCreateTable().Model((*User)(nil)).IfNotExists().Exec(ctx); err != nil {
		t.Fatalf("failed to create users table: %v", err)
	}

	s := &UserStore{db: db}
	for _, u := range users {
		if err := s.Insert(ctx, u); err != nil {
			t.Fatalf("failed to seed user %s: %v", u.Email, err)
		}
	}
	return s
}

// DB returns the underlying handle.
func (s *UserStore) DB() *bun.DB {
	return s.db
}

// Insert stores u, assigning an ID when it has none.
func (s *UserStore) Insert(ctx context.Context, u User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NewInsert().Model(&u).Exec(ctx)
	return err
}

// Get returns the first user matching criteria or sql.ErrNoRows.
func (s *UserStore) Get(ctx context.Context, criteria ...repository.SelectCriteria) (User, error) {
	var u User
	q := s.db.NewSelect().Model(&u)
	for _, c := range criteria {
		q = c(q)
	}
	if err := q.Limit(1).Scan(ctx); err != nil {
		return User{}, err
	}
	return u, nil
}

// List returns the users matching criteria with their total count.
func (s *UserStore) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]User, int, error) {
	var users []User
	q := s.db.NewSelect().Model(&users).OrderExpr("email ASC")
	for _, c := range criteria {
		q = c(q)
	}
	count, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, count, nil
}
