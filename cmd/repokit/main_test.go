package main

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-repository-kit/cli"
	"github.com/goliatone/go-repository-kit/internal/store"
	"github.com/goliatone/go-repository-kit/pkg/testsupport"
)

func TestConfigPath(t *testing.T) {
	t.Setenv("REPOKIT_CONFIG", "")

	assert.Equal(t, "app.yaml", configPath([]string{"--config", "app.yaml", "cache:stats"}))
	assert.Equal(t, "app.yaml", configPath([]string{"validate:exists", "-f", "email", "-c", "app.yaml", "x"}))
	assert.Equal(t, "", configPath([]string{"cache:stats", "--unknown"}))

	t.Setenv("REPOKIT_CONFIG", "env.yaml")
	assert.Equal(t, "env.yaml", configPath([]string{"cache:stats"}))
}

func TestRun_ValidateAgainstSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "repokit.db")
	dsn := "file:" + dbPath

	ctx := context.Background()
	db, err := store.Open(ctx, store.Config{Driver: store.DriverSQLite, DSN: dsn}, nil)
	require.NoError(t, err)
	users := testsupport.LoadRecords[testsupport.User](t, filepath.Join("testdata", "users.json"))
	testsupport.NewUserStore(t, db, users...)
	require.NoError(t, db.Close())

	configFile := testsupport.TempFile(t, "repokit.yaml", []byte(fmt.Sprintf(`
database:
  driver: sqlite3
  dsn: %q
  table: users
  columns: [id, email, role]
log:
  level: error
`, dsn)))

	err = run(ctx, []string{"--config", configFile, "validate:exists", "--field", "email", "ada@example.com"})
	assert.NoError(t, err)

	err = run(ctx, []string{"--config", configFile, "validate:exists", "--field", "email", "nobody@example.com"})
	assert.ErrorIs(t, err, cli.ErrValidationFailed)

	err = run(ctx, []string{"--config", configFile, "validate:unique", "--field", "email", "nobody@example.com"})
	assert.NoError(t, err)

	err = run(ctx, []string{"--config", configFile, "cache:stats"})
	assert.NoError(t, err)
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("REPOKIT_DATABASE_DRIVER", "oracle")

	err := run(context.Background(), []string{"cache:stats"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
