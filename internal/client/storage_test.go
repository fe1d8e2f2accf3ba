package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack/internal/types"
)

func openStore(t *testing.T) *LocalStore {
	t.Helper()

	store, err := OpenLocalStore(filepath.Join(t.TempDir(), "client", "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLocalStore_TasksRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	empty, err := store.LoadTasks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	tasks := sampleTasks()
	tasks[1].Tags = []string{}
	require.NoError(t, store.SaveTasks(ctx, tasks))

	loaded, err := store.LoadTasks(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, tasks, loaded)

	require.NoError(t, store.SaveTasks(ctx, tasks[:1]))
	loaded, err = store.LoadTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, tasks[:1], loaded)
}

func TestLocalStore_View(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	_, found, err := store.LoadView(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	prefs := ViewPrefs{Filters: Filters{Status: "pending", Priority: 1, Search: "milk"}, SortBy: SortCustom}
	require.NoError(t, store.SaveView(ctx, prefs))

	loaded, found, err := store.LoadView(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, prefs, loaded)
}

func TestLocalStore_Auth(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	_, _, err := store.LoadAuth(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	user := types.UserResponse{ID: 4, Name: "Alice", Email: "alice@x.com"}
	require.NoError(t, store.SaveAuth(ctx, "tok-1", user))
	require.NoError(t, store.SaveAuth(ctx, "tok-2", user))

	token, loaded, err := store.LoadAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
	assert.Equal(t, user, *loaded)

	require.NoError(t, store.SaveTasks(ctx, sampleTasks()))
	require.NoError(t, store.Clear(ctx))

	_, _, err = store.LoadAuth(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	tasks, err := store.LoadTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
