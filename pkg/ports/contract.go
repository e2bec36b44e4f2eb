package ports

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	t.Helper()

	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	newSnapshot := func(id string, count int) *domain.Snapshot {
		snap, err := domain.NewSnapshot(id, "counter", map[string]any{"count": count})
		require.NoError(t, err)
		return snap
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := newSnapshot(sessionID, 42)

		err := store.Save(ctx, sessionID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "counter", loaded.Feature)
		assert.Equal(t, domain.SnapshotVersion, loaded.Version)

		var state map[string]any
		require.NoError(t, json.Unmarshal(loaded.State, &state))
		assert.EqualValues(t, 42, state["count"])
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, newSnapshot(sessionID, 1)))
		require.NoError(t, store.Save(ctx, sessionID, newSnapshot(sessionID, 2)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"count":2}`, string(loaded.State))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, newSnapshot(sessionID, 1)))

		err := store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, newSnapshot(id1, 1)))
		require.NoError(t, store.Save(ctx, id2, newSnapshot(id2, 2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
