package kv_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeSteak11/social-media-content-organizer/pkg/kv"
	"github.com/LeSteak11/social-media-content-organizer/pkg/kv/memory"
)

// brokenStore simulates a backend whose connection can be cut at runtime.
type brokenStore struct {
	inner kv.Store

	mu   sync.Mutex
	down bool
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func newBrokenStore() *brokenStore {
	return &brokenStore{inner: memory.New()}
}

func (b *brokenStore) setDown(down bool) {
	b.mu.Lock()
	b.down = down
	b.mu.Unlock()
}

func (b *brokenStore) fail() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.down {
		return errConnRefused
	}
	return nil
}

func (b *brokenStore) Set(ctx context.Context, key string, value []byte) error {
	if err := b.fail(); err != nil {
		return err
	}
	return b.inner.Set(ctx, key, value)
}

func (b *brokenStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := b.fail(); err != nil {
		return nil, err
	}
	return b.inner.Get(ctx, key)
}

func (b *brokenStore) SetString(ctx context.Context, key string, value string) error {
	return b.Set(ctx, key, []byte(value))
}

func (b *brokenStore) GetString(ctx context.Context, key string) (string, error) {
	data, err := b.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (b *brokenStore) Del(ctx context.Context, keys ...string) (int64, error) {
	if err := b.fail(); err != nil {
		return 0, err
	}
	return b.inner.Del(ctx, keys...)
}

func (b *brokenStore) Exists(ctx context.Context, keys ...string) (int64, error) {
	if err := b.fail(); err != nil {
		return 0, err
	}
	return b.inner.Exists(ctx, keys...)
}

func (b *brokenStore) HSet(ctx context.Context, key string, field string, value []byte) error {
	if err := b.fail(); err != nil {
		return err
	}
	return b.inner.HSet(ctx, key, field, value)
}

func (b *brokenStore) HGet(ctx context.Context, key string, field string) ([]byte, error) {
	if err := b.fail(); err != nil {
		return nil, err
	}
	return b.inner.HGet(ctx, key, field)
}

func (b *brokenStore) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	if err := b.fail(); err != nil {
		return 0, err
	}
	return b.inner.HDel(ctx, key, fields...)
}

func (b *brokenStore) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	if err := b.fail(); err != nil {
		return nil, err
	}
	return b.inner.HGetAll(ctx, key)
}

func (b *brokenStore) Ping(ctx context.Context) error {
	return b.fail()
}

func (b *brokenStore) Close() error {
	return b.inner.Close()
}

func TestFailoverStoreUsesPrimaryWhenHealthy(t *testing.T) {
	ctx := context.Background()
	primary := newBrokenStore()
	fallback := memory.New()

	fs := kv.NewFailoverStore(primary, fallback, time.Minute, nil)
	defer fs.Close()

	require.NoError(t, fs.SetString(ctx, "key", "value"))

	got, err := primary.inner.GetString(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	_, err = fallback.GetString(ctx, "key")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestFailoverStoreSwitchesOnConnectionError(t *testing.T) {
	ctx := context.Background()
	primary := newBrokenStore()
	fallback := memory.New()

	fs := kv.NewFailoverStore(primary, fallback, time.Minute, nil)
	defer fs.Close()

	primary.setDown(true)

	// The failing write is retried transparently against the fallback.
	require.NoError(t, fs.SetString(ctx, "key", "value"))

	got, err := fallback.GetString(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	// Subsequent operations stay on the fallback without touching the
	// primary.
	require.NoError(t, fs.SetString(ctx, "other", "x"))
	_, err = primary.inner.Get(ctx, "other")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestFailoverStoreDoesNotFailoverOnNotFound(t *testing.T) {
	ctx := context.Background()
	primary := newBrokenStore()
	fallback := memory.New()

	require.NoError(t, fallback.SetString(ctx, "key", "fallback-value"))

	fs := kv.NewFailoverStore(primary, fallback, time.Minute, nil)
	defer fs.Close()

	// A miss on the primary is a real miss, not a reason to switch stores.
	_, err := fs.GetString(ctx, "key")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestFailoverStoreRecoversToPrimary(t *testing.T) {
	ctx := context.Background()
	primary := newBrokenStore()
	fallback := memory.New()

	fs := kv.NewFailoverStore(primary, fallback, 10*time.Millisecond, nil)
	defer fs.Close()

	primary.setDown(true)
	require.NoError(t, fs.SetString(ctx, "key", "value"))

	primary.setDown(false)

	require.Eventually(t, func() bool {
		if err := fs.SetString(ctx, "probe", "1"); err != nil {
			return false
		}
		_, err := primary.inner.Get(ctx, "probe")
		return err == nil
	}, time.Second, 10*time.Millisecond, "expected writes to reach the primary after recovery")
}

func TestFailoverStoreStartsOnFallbackWhenConfigured(t *testing.T) {
	ctx := context.Background()
	primary := newBrokenStore()
	primary.setDown(true)
	fallback := memory.New()

	fs := kv.NewFailoverStoreWithFallbackActive(primary, fallback, time.Minute, nil)
	defer fs.Close()

	require.NoError(t, fs.SetString(ctx, "key", "value"))

	got, err := fallback.GetString(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}
