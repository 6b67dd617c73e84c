// Package snapshottest provides a reusable conformance suite for snapshot.Store
// implementations.
package snapshottest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tickstate/pkg/snapshot"
)

// RunStoreContract verifies that store behaves as snapshot.Store requires.
// Each run uses unique names so the suite can share a backend with other tests.
func RunStoreContract(t *testing.T, store snapshot.Store) {
	t.Helper()

	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405.000000000") + "-"

	t.Run("Save and Load", func(t *testing.T) {
		snap := snapshot.Snapshot{
			Name:        prefix + "player",
			State:       "walking",
			Pending:     "running",
			Transitions: 3,
			UpdatedAt:   time.Now().UTC().Truncate(time.Second),
		}

		require.NoError(t, store.Save(ctx, snap))

		loaded, err := store.Load(ctx, snap.Name)
		require.NoError(t, err)
		assert.Equal(t, snap.Name, loaded.Name)
		assert.Equal(t, snap.State, loaded.State)
		assert.Equal(t, snap.Pending, loaded.Pending)
		assert.Equal(t, snap.Transitions, loaded.Transitions)
		assert.True(t, snap.UpdatedAt.Equal(loaded.UpdatedAt))
	})

	t.Run("Save overwrites", func(t *testing.T) {
		name := prefix + "overwrite"
		require.NoError(t, store.Save(ctx, snapshot.Snapshot{Name: name, State: "idle"}))
		require.NoError(t, store.Save(ctx, snapshot.Snapshot{Name: name, Poisoned: true, Error: "boom"}))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.True(t, loaded.Poisoned)
		assert.Empty(t, loaded.State)
		assert.Equal(t, "boom", loaded.Error)
	})

	t.Run("Load missing", func(t *testing.T) {
		_, err := store.Load(ctx, prefix+"missing")
		assert.ErrorIs(t, err, snapshot.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		name := prefix + "deleted"
		require.NoError(t, store.Save(ctx, snapshot.Snapshot{Name: name, State: "idle"}))

		require.NoError(t, store.Delete(ctx, name))
		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, snapshot.ErrNotFound)

		assert.NoError(t, store.Delete(ctx, name), "deleting twice must not fail")
	})

	t.Run("List", func(t *testing.T) {
		a, b := prefix+"list-a", prefix+"list-b"
		require.NoError(t, store.Save(ctx, snapshot.Snapshot{Name: a}))
		require.NoError(t, store.Save(ctx, snapshot.Snapshot{Name: b}))
		defer func() {
			_ = store.Delete(ctx, a)
			_ = store.Delete(ctx, b)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, a)
		assert.Contains(t, names, b)
	})
}
