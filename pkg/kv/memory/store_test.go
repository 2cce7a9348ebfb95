package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeSteak11/social-media-content-organizer/pkg/kv"
	"github.com/LeSteak11/social-media-content-organizer/pkg/kv/kvtest"
)

func TestMemoryStoreConformance(t *testing.T) {
	kvtest.RunConformanceTests(t, func(t *testing.T) kv.Store {
		return memoryStore()
	})
}

func memoryStore() kv.Store {
	store, err := kv.NewStoreFromConfig(kv.Config{Backend: kv.BackendMemory})
	if err != nil {
		panic(err)
	}
	return store
}

func TestMemoryStoreTypeExclusivity(t *testing.T) {
	ctx := context.Background()
	store := memoryStore()
	defer store.Close()

	require.NoError(t, store.SetString(ctx, "key", "plain"))
	require.NoError(t, store.HSet(ctx, "key", "field", []byte("hash")))

	// Writing a hash replaces the string value at the same key.
	_, err := store.Get(ctx, "key")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	value, err := store.HGet(ctx, "key", "field")
	require.NoError(t, err)
	assert.Equal(t, "hash", string(value))
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := memoryStore()
	defer store.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.HSet(ctx, "settings", "timezone", []byte("UTC"))
		}()
		go func() {
			defer wg.Done()
			_, _ = store.HGetAll(ctx, "settings")
		}()
	}
	wg.Wait()

	value, err := store.HGet(ctx, "settings", "timezone")
	require.NoError(t, err)
	assert.Equal(t, "UTC", string(value))
}
