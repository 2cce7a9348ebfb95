package kv

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// LogFunc is a function type for structured logging.
type LogFunc func(msg string, fields ...any)

// FailoverStore wraps a primary and fallback store, failing over when the
// primary becomes unavailable and recovering when it becomes healthy again.
// Data written while failed over lives only in the fallback; for the settings
// use case that means operators may need to re-apply a toggle after a Redis
// outage, which is acceptable for an advisory system.
type FailoverStore struct {
	primary       Store // usually Redis
	fallback      Store // usually in-memory
	active        atomic.Value
	probeInterval time.Duration
	logger        LogFunc

	mu        sync.Mutex
	probing   bool
	closed    chan struct{}
	probeStop chan struct{}
	probeDone chan struct{}
}

// NewFailoverStore creates a failover store that starts with the primary
// active.
func NewFailoverStore(primary, fallback Store, probeInterval time.Duration, logger LogFunc) *FailoverStore {
	if logger == nil {
		logger = func(msg string, fields ...any) {}
	}

	fs := &FailoverStore{
		primary:       primary,
		fallback:      fallback,
		probeInterval: probeInterval,
		logger:        logger,
		closed:        make(chan struct{}),
	}
	fs.active.Store(primary)
	return fs
}

// NewFailoverStoreWithFallbackActive creates a failover store that starts on
// the fallback and probes the primary for recovery (used when the primary is
// already down at startup).
func NewFailoverStoreWithFallbackActive(primary, fallback Store, probeInterval time.Duration, logger LogFunc) *FailoverStore {
	fs := NewFailoverStore(primary, fallback, probeInterval, logger)
	fs.active.Store(fallback)
	fs.mu.Lock()
	fs.startProbing()
	fs.mu.Unlock()
	return fs
}

func (fs *FailoverStore) getActiveStore() Store {
	return fs.active.Load().(Store)
}

// demoteToFallback switches to the fallback store and starts probing the
// primary for recovery.
func (fs *FailoverStore) demoteToFallback() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.getActiveStore() == fs.fallback {
		return
	}

	fs.active.Store(fs.fallback)
	fs.logger("Failing over to in-memory store", "reason", "primary_unavailable")
	fs.startProbing()
}

// promoteToPrimary switches back to the primary store and stops probing.
func (fs *FailoverStore) promoteToPrimary() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.getActiveStore() == fs.primary {
		return
	}

	fs.active.Store(fs.primary)
	fs.logger("Recovered to primary store", "reason", "primary_healthy")
	fs.stopProbing()
}

// startProbing launches the recovery probe goroutine. Caller must hold fs.mu.
func (fs *FailoverStore) startProbing() {
	if fs.probing {
		return
	}
	fs.probing = true
	fs.probeStop = make(chan struct{})
	fs.probeDone = make(chan struct{})

	go func(stop, done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(fs.probeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), fs.probeInterval)
				err := fs.primary.Ping(ctx)
				cancel()
				if err == nil {
					fs.promoteToPrimary()
					return
				}
			case <-stop:
				return
			case <-fs.closed:
				return
			}
		}
	}(fs.probeStop, fs.probeDone)
}

// stopProbing stops the probe goroutine. Caller must hold fs.mu.
func (fs *FailoverStore) stopProbing() {
	if !fs.probing {
		return
	}
	fs.probing = false
	close(fs.probeStop)
}

// shouldFailover reports whether an error from the primary warrants switching
// to the fallback. Data-level misses pass through untouched.
func shouldFailover(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// String operations

func (fs *FailoverStore) Set(ctx context.Context, key string, value []byte) error {
	st := fs.getActiveStore()
	err := st.Set(ctx, key, value)
	if st == fs.primary && shouldFailover(err) {
		fs.demoteToFallback()
		return fs.fallback.Set(ctx, key, value)
	}
	return err
}

func (fs *FailoverStore) Get(ctx context.Context, key string) ([]byte, error) {
	st := fs.getActiveStore()
	value, err := st.Get(ctx, key)
	if st == fs.primary && shouldFailover(err) {
		fs.demoteToFallback()
		return fs.fallback.Get(ctx, key)
	}
	return value, err
}

func (fs *FailoverStore) SetString(ctx context.Context, key string, value string) error {
	return fs.Set(ctx, key, []byte(value))
}

func (fs *FailoverStore) GetString(ctx context.Context, key string) (string, error) {
	data, err := fs.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Key operations

func (fs *FailoverStore) Del(ctx context.Context, keys ...string) (int64, error) {
	st := fs.getActiveStore()
	n, err := st.Del(ctx, keys...)
	if st == fs.primary && shouldFailover(err) {
		fs.demoteToFallback()
		return fs.fallback.Del(ctx, keys...)
	}
	return n, err
}

func (fs *FailoverStore) Exists(ctx context.Context, keys ...string) (int64, error) {
	st := fs.getActiveStore()
	n, err := st.Exists(ctx, keys...)
	if st == fs.primary && shouldFailover(err) {
		fs.demoteToFallback()
		return fs.fallback.Exists(ctx, keys...)
	}
	return n, err
}

// Hash operations

func (fs *FailoverStore) HSet(ctx context.Context, key string, field string, value []byte) error {
	st := fs.getActiveStore()
	err := st.HSet(ctx, key, field, value)
	if st == fs.primary && shouldFailover(err) {
		fs.demoteToFallback()
		return fs.fallback.HSet(ctx, key, field, value)
	}
	return err
}

func (fs *FailoverStore) HGet(ctx context.Context, key string, field string) ([]byte, error) {
	st := fs.getActiveStore()
	value, err := st.HGet(ctx, key, field)
	if st == fs.primary && shouldFailover(err) {
		fs.demoteToFallback()
		return fs.fallback.HGet(ctx, key, field)
	}
	return value, err
}

func (fs *FailoverStore) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	st := fs.getActiveStore()
	n, err := st.HDel(ctx, key, fields...)
	if st == fs.primary && shouldFailover(err) {
		fs.demoteToFallback()
		return fs.fallback.HDel(ctx, key, fields...)
	}
	return n, err
}

func (fs *FailoverStore) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	st := fs.getActiveStore()
	values, err := st.HGetAll(ctx, key)
	if st == fs.primary && shouldFailover(err) {
		fs.demoteToFallback()
		return fs.fallback.HGetAll(ctx, key)
	}
	return values, err
}

// Ping reports the health of the currently active store.
func (fs *FailoverStore) Ping(ctx context.Context) error {
	return fs.getActiveStore().Ping(ctx)
}

// Close stops background probing and closes both stores.
func (fs *FailoverStore) Close() error {
	fs.mu.Lock()
	fs.stopProbing()
	fs.mu.Unlock()
	close(fs.closed)

	err := fs.primary.Close()
	if ferr := fs.fallback.Close(); err == nil {
		err = ferr
	}
	return err
}
