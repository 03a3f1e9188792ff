package testsupport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFinder_FindOneBy(t *testing.T) {
	users := LoadRecords[User](t, FixturePath("users.json"))
	finder := NewMemoryFinder(UserField, users...)
	ctx := context.Background()

	u, found, err := finder.FindOneBy(ctx, map[string]any{"email": "grace@example.com"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Grace Hopper", u.Name)

	u, found, err = finder.FindOneBy(ctx, map[string]any{"role": "editor", "name": "Alan Turing"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alan@example.com", u.Email)

	_, found, err = finder.FindOneBy(ctx, map[string]any{"email": "nobody@example.com"})
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = finder.FindOneBy(ctx, map[string]any{"unknown": "x"})
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, 4, finder.Calls())
	assert.Equal(t, map[string]any{"unknown": "x"}, finder.LastCriteria())
}

func TestMemoryFinder_Fail(t *testing.T) {
	finder := NewMapFinder(map[string]any{"id": 1})
	boom := errors.New("boom")

	finder.Fail(boom)
	_, _, err := finder.FindOneBy(context.Background(), map[string]any{"id": 1})
	assert.ErrorIs(t, err, boom)

	finder.Fail(nil)
	row, found, err := finder.FindOneBy(context.Background(), map[string]any{"id": 1})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, row["id"])
}

func TestMemoryFinder_Add(t *testing.T) {
	finder := NewMapFinder()
	assert.Nil(t, finder.LastCriteria())

	finder.Add(map[string]any{"email": "a@b.com"})
	_, found, err := finder.FindOneBy(context.Background(), map[string]any{"email": "a@b.com"})
	require.NoError(t, err)
	assert.True(t, found)
}
