package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	moduleID := "ContractModule" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := domain.NewStateSnapshot(moduleID, "ContractModule")
		snap.Values["label"] = domain.StringValue("bar")
		snap.Values["count"] = domain.IntValue(42)
		snap.Values["ratio"] = domain.FloatValue(0.5)
		snap.Values["enabled"] = domain.BoolValue(true)

		err := store.Save(ctx, moduleID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, moduleID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "ContractModule", loaded.ModuleName)
		require.Len(t, loaded.Values, 4)
		// Kinds must survive the trip, not just the payload.
		for k, v := range snap.Values {
			assert.True(t, v.Equal(loaded.Values[k]), "value %q changed: %v -> %v", k, v, loaded.Values[k])
		}
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, moduleID)
		require.NoError(t, err)
		loaded.Values["label"] = domain.StringValue("mutated")

		again, err := store.Load(ctx, moduleID)
		require.NoError(t, err)
		assert.Equal(t, "bar", again.Values["label"].String())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+moduleID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, moduleID, domain.NewStateSnapshot(moduleID, "ContractModule"))
		require.NoError(t, err)

		err = store.Delete(ctx, moduleID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, moduleID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := moduleID + "-1"
		id2 := moduleID + "-2"
		_ = store.Save(ctx, id1, domain.NewStateSnapshot(id1, "ContractModule"))
		_ = store.Save(ctx, id2, domain.NewStateSnapshot(id2, "ContractModule"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
