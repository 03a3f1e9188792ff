package di

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-repository-kit/finder"
	"github.com/goliatone/go-repository-kit/form"
	"github.com/goliatone/go-repository-kit/pkg/testsupport"
	"github.com/goliatone/go-repository-kit/repositorycache"
	"github.com/goliatone/go-repository-kit/validator"
)

type User = testsupport.User

// countingFinder counts lookups reaching the repository.
type countingFinder struct {
	base  validator.Finder[User]
	calls atomic.Int64
}

func (c *countingFinder) FindOneBy(ctx context.Context, criteria map[string]any) (User, bool, error) {
	c.calls.Add(1)
	return c.base.FindOneBy(ctx, criteria)
}

type integrationEnv struct {
	container *Container
	users     []User
	store     *testsupport.UserStore
	base      *countingFinder
	cached    *repositorycache.CachedFinder[User]
}

func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()

	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("Failed to create DI container: %v", err)
	}

	users := testsupport.LoadRecords[User](t, testsupport.FixturePath("users.json"))
	store := testsupport.NewUserStore(t, testsupport.OpenSQLite(t), users...)
	base := &countingFinder{base: finder.NewRepositoryFinder[User](store)}

	return &integrationEnv{
		container: container,
		users:     users,
		store:     store,
		base:      base,
		cached:    NewCachedFinder[User](container, base),
	}
}

func TestIntegration_CachedFinderServesRepeatedLookups(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		u, found, err := env.cached.FindOneBy(ctx, map[string]any{"email": "ada@example.com"})
		if err != nil {
			t.Fatalf("FindOneBy() failed: %v", err)
		}
		if !found || u.ID != env.users[0].ID {
			t.Fatalf("Expected Ada, got %+v (found=%v)", u, found)
		}
	}

	if calls := env.base.calls.Load(); calls != 1 {
		t.Errorf("Expected 1 repository lookup, got %d", calls)
	}
	if env.cached.Namespace() != "user" {
		t.Errorf("Expected namespace user, got %q", env.cached.Namespace())
	}
}

func TestIntegration_UniquenessSeesRecordsInsertedAfterAMiss(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	v, err := NewNoRecordExists(env.container, validator.Config[User]{
		Finder: env.cached,
		Fields: "email",
	})
	if err != nil {
		t.Fatalf("NewNoRecordExists() failed: %v", err)
	}

	unique, err := v.IsValid(ctx, validator.Scalar("late@example.com"))
	if err != nil || !unique {
		t.Fatalf("Expected unused email to be unique, got unique=%v err=%v", unique, err)
	}

	if err := env.store.Insert(ctx, User{Name: "Late Comer", Email: "late@example.com"}); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	unique, err = v.IsValid(ctx, validator.Scalar("late@example.com"))
	if err != nil {
		t.Fatalf("IsValid() failed: %v", err)
	}
	if unique {
		t.Error("Expected inserted email to be reported as taken")
	}
	if calls := env.base.calls.Load(); calls != 2 {
		t.Errorf("Expected 2 repository lookups, got %d", calls)
	}
}

func TestIntegration_MissCachingNeedsInvalidation(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()
	cached := NewCachedFinder[User](env.container, env.base, repositorycache.WithMissCaching())
	criteria := map[string]any{"email": "nobody@example.com"}

	for i := 0; i < 2; i++ {
		_, found, err := cached.FindOneBy(ctx, criteria)
		if err != nil {
			t.Fatalf("FindOneBy() failed: %v", err)
		}
		if found {
			t.Fatal("Expected no record")
		}
	}
	if calls := env.base.calls.Load(); calls != 1 {
		t.Errorf("Expected cached miss, got %d repository lookups", calls)
	}

	if err := env.store.Insert(ctx, User{Name: "Nobody", Email: "nobody@example.com"}); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	if err := cached.InvalidateCriteria(ctx, criteria); err != nil {
		t.Fatalf("InvalidateCriteria() failed: %v", err)
	}

	_, found, err := cached.FindOneBy(ctx, criteria)
	if err != nil {
		t.Fatalf("FindOneBy() failed: %v", err)
	}
	if !found {
		t.Error("Expected the inserted record after invalidation")
	}
}

func TestIntegration_RecordExistsAgainstSQLite(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	v, err := NewRecordExists(env.container, validator.Config[User]{
		Finder: env.cached,
		Fields: []string{"email", "role"},
	})
	if err != nil {
		t.Fatalf("NewRecordExists() failed: %v", err)
	}

	valid, err := v.IsValid(ctx, validator.Map(map[string]any{"email": "grace@example.com", "role": "editor"}))
	if err != nil || !valid {
		t.Errorf("Expected Grace to exist, got valid=%v err=%v", valid, err)
	}

	valid, err = v.IsValid(ctx, validator.Sequence("grace@example.com", "admin"))
	if err != nil {
		t.Fatalf("IsValid() failed: %v", err)
	}
	if valid {
		t.Error("Expected Grace as admin not to exist")
	}
	if msg := v.Messages()[validator.NoRecordFound]; msg == "" {
		t.Error("Expected a no record found message")
	}

	_, err = v.IsValid(ctx, validator.Scalar("grace@example.com"))
	if !errors.Is(err, validator.ErrRuntimeMismatch) {
		t.Errorf("Expected runtime mismatch, got %v", err)
	}
}

func TestIntegration_UniqueRecordOnEdit(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	v, err := NewUniqueRecord(env.container, validator.Config[User]{
		Finder:        env.cached,
		Fields:        "email",
		IdentityField: "id",
		Identifier:    func(u User) any { return u.ID },
	})
	if err != nil {
		t.Fatalf("NewUniqueRecord() failed: %v", err)
	}

	ada := env.users[0]

	valid, err := v.IsValid(ctx, validator.Scalar(ada.Email), validator.EditContext{Identifier: ada.ID})
	if err != nil || !valid {
		t.Errorf("Expected editing Ada with the same email to pass, got valid=%v err=%v", valid, err)
	}

	valid, err = v.IsValid(ctx, validator.Scalar(ada.Email), validator.EditContext{
		Values: map[string]any{"id": env.users[1].ID},
	})
	if err != nil {
		t.Fatalf("IsValid() failed: %v", err)
	}
	if valid {
		t.Error("Expected Grace taking Ada's email to fail")
	}
	if _, ok := v.Messages()[validator.RecordFound]; !ok {
		t.Error("Expected a record found message")
	}

	valid, err = v.IsValid(ctx, validator.Scalar("new@example.com"), validator.EditContext{})
	if err != nil || !valid {
		t.Errorf("Expected unused email to pass, got valid=%v err=%v", valid, err)
	}
}

func TestIntegration_ObjectSelectFromRepository(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	lister := finder.NewRepositoryLister[User](env.store, finder.Where("role", "editor"))
	proxy, err := form.NewProxy(form.ProxyConfig[User]{
		Lister:     lister,
		Property:   "Name",
		Identifier: func(u User) any { return u.ID.String() },
	})
	if err != nil {
		t.Fatalf("NewProxy() failed: %v", err)
	}

	sel := form.NewObjectSelect[User]("editor", proxy)
	options, err := sel.ValueOptions(ctx)
	if err != nil {
		t.Fatalf("ValueOptions() failed: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("Expected 2 editors, got %d", len(options))
	}
	if options[0].Label != "Alan Turing" || options[1].Label != "Grace Hopper" {
		t.Errorf("Unexpected labels %q, %q", options[0].Label, options[1].Label)
	}

	spec, err := sel.InputSpecification(ctx)
	if err != nil {
		t.Fatalf("InputSpecification() failed: %v", err)
	}
	if len(spec.Validators) != 1 {
		t.Fatalf("Expected the in-array validator, got %d validators", len(spec.Validators))
	}
	if !spec.Validators[0].IsValid(env.users[1].ID.String()) {
		t.Error("Expected Grace's id to be an accepted value")
	}
	if spec.Validators[0].IsValid(env.users[0].ID.String()) {
		t.Error("Expected Ada's id to be rejected")
	}
}
