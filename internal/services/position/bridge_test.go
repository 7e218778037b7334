package position

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/pocketworld/internal/model"
	"github.com/mcoot/pocketworld/internal/storage"
	"github.com/mcoot/pocketworld/internal/storage/memory"
	"github.com/mcoot/pocketworld/internal/testutil"
)

func newBridge(t *testing.T, store storage.Storage) *Bridge {
	t.Helper()
	b := NewBridge(store, 16, testutil.NopLogger())
	t.Cleanup(b.Close)
	return b
}

func TestEnqueueSaveEventuallyPersists(t *testing.T) {
	store := memory.New()
	bridge := newBridge(t, store)

	bridge.EnqueueSave("p-1", model.Position{X: 10, Y: 20, IsRunning: true})

	require.Eventually(t, func() bool {
		pos, err := store.GetPosition(context.Background(), "p-1")
		return err == nil && pos.X == 10 && pos.Y == 20 && pos.IsRunning
	}, time.Second, 5*time.Millisecond)
}

func TestLastWriteWins(t *testing.T) {
	store := memory.New()
	bridge := newBridge(t, store)

	for i := 1; i <= 10; i++ {
		bridge.EnqueueSave("p-1", model.Position{X: float64(i), Y: 0})
	}

	require.Eventually(t, func() bool {
		pos, err := store.GetPosition(context.Background(), "p-1")
		return err == nil && pos.X == 10
	}, time.Second, 5*time.Millisecond)
}

func TestLoadLastPositionMissingIsNotAnError(t *testing.T) {
	bridge := newBridge(t, memory.New())

	_, found, err := bridge.LoadLastPosition(context.Background(), "p-ghost")
	require.NoError(t, err)
	require.False(t, found)
}

func TestLoadLastPositionRoundTrip(t *testing.T) {
	store := memory.New()
	bridge := newBridge(t, store)

	require.NoError(t, store.SavePosition(context.Background(), "p-1", model.Position{X: 3, Y: 4}))

	pos, found, err := bridge.LoadLastPosition(context.Background(), "p-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, model.Position{X: 3, Y: 4}, pos)
}

func TestCloseDrainsQueue(t *testing.T) {
	store := memory.New()
	bridge := NewBridge(store, 16, testutil.NopLogger())

	for i := 0; i < 10; i++ {
		bridge.EnqueueSave(model.PlayerID(fmt.Sprintf("p-%d", i)), model.Position{X: float64(i)})
	}
	bridge.Close()

	for i := 0; i < 10; i++ {
		pos, err := store.GetPosition(context.Background(), model.PlayerID(fmt.Sprintf("p-%d", i)))
		require.NoError(t, err)
		require.Equal(t, float64(i), pos.X)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	bridge := NewBridge(memory.New(), 16, testutil.NopLogger())
	bridge.Close()
	bridge.Close()
}

// failingStorage rejects position writes while counting attempts
type failingStorage struct {
	storage.Storage
	mu       sync.Mutex
	attempts int
}

func (f *failingStorage) SavePosition(_ context.Context, _ model.PlayerID, _ model.Position) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	return fmt.Errorf("store down")
}

func (f *failingStorage) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func TestStorageFailureIsIsolated(t *testing.T) {
	store := &failingStorage{Storage: memory.New()}
	bridge := newBridge(t, store)

	bridge.EnqueueSave("p-1", model.Position{X: 1})
	bridge.EnqueueSave("p-2", model.Position{X: 2})

	require.Eventually(t, func() bool {
		return store.attemptCount() == 2
	}, time.Second, 5*time.Millisecond)
}
