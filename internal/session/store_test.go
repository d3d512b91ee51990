package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_EmptyByDefault(t *testing.T) {
	store := NewMemoryStore()

	userID, err := store.Get(context.Background())
	require.NoError(t, err)
	require.Empty(t, userID)
}

func TestMemoryStore_SetOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "alice@example.com"))
	require.NoError(t, store.Set(ctx, "bob@example.com"))

	// Single slot: the second login replaces the first
	userID, err := store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "bob@example.com", userID)
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "alice@example.com"))
	require.NoError(t, store.Clear(ctx))

	userID, err := store.Get(ctx)
	require.NoError(t, err)
	require.Empty(t, userID)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = store.Set(ctx, "alice@example.com")
			} else {
				_, _ = store.Get(ctx)
			}
		}(i)
	}
	wg.Wait()

	userID, err := store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", userID)
}
