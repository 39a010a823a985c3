package outbox

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "outbox.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreOrdersByPriorityThenTime(t *testing.T) {
	store := openStore(t)
	base := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Enqueue(Message{ID: "late", Kind: KindNotification, Priority: 3, Timestamp: base.Add(time.Second)}))
	require.NoError(t, store.Enqueue(Message{ID: "early", Kind: KindNotification, Priority: 3, Timestamp: base}))
	require.NoError(t, store.Enqueue(Message{ID: "urgent", Kind: KindTracking, Priority: 1, Timestamp: base.Add(time.Hour)}))

	batch, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, batch, 3)
	assert.Equal(t, []string{"urgent", "early", "late"}, []string{batch[0].ID, batch[1].ID, batch[2].ID})

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func TestStoreRemoveAndRequeue(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Enqueue(Message{ID: "a", Kind: KindNotification}))
	require.NoError(t, store.Enqueue(Message{ID: "b", Kind: KindNotification}))

	batch, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	first := batch[0]

	first.Attempts++
	require.NoError(t, store.Requeue(first))

	batch, err = store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, first.ID, batch[1].ID, "requeued message moves to the back")
	assert.Equal(t, 1, batch[1].Attempts)

	require.NoError(t, store.Remove(batch[0]))
	require.NoError(t, store.Remove(Message{ID: batch[1].ID}))
	size, err := store.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestStoreCleanup(t *testing.T) {
	store := openStore(t)
	now := time.Now()
	require.NoError(t, store.Enqueue(Message{ID: "old", Timestamp: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.Enqueue(Message{ID: "new", Timestamp: now}))

	removed, err := store.Cleanup(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	batch, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "new", batch[0].ID)
}

func TestNilStore(t *testing.T) {
	var store *Store
	assert.Error(t, store.Enqueue(Message{}))
	assert.NoError(t, store.Close())
}
