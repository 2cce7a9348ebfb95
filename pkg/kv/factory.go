package kv

import (
	"context"
	"fmt"
	"time"
)

// Backend represents the storage backend type.
type Backend string

const (
	// BackendMemory uses the in-memory store.
	BackendMemory Backend = "memory"
	// BackendRedis uses Redis as the backend.
	BackendRedis Backend = "redis"
)

// Config holds configuration for creating a Store instance.
type Config struct {
	// Backend specifies which storage backend to use.
	Backend Backend

	// RedisURL is the connection string for Redis (required when Backend is
	// "redis"). Format: redis://localhost:6379/0
	RedisURL string

	// FailoverEnabled controls whether Redis failures fall back to an
	// in-memory store. Default: true.
	FailoverEnabled bool

	// ProbeInterval controls how often to probe Redis for recovery after a
	// failover. Default: 5 seconds.
	ProbeInterval time.Duration

	// StartupProbeTimeout controls how long to wait for Redis at startup.
	// Default: 1 second.
	StartupProbeTimeout time.Duration

	// Logger is used for logging failover events. If nil, no logging occurs.
	Logger LogFunc
}

// StoreFactory defines a function that creates a Store instance.
type StoreFactory func(cfg Config) (Store, error)

var factories = make(map[Backend]StoreFactory)

// RegisterBackend registers a store factory for a given backend.
func RegisterBackend(backend Backend, factory StoreFactory) {
	factories[backend] = factory
}

// NewStoreFromConfig creates a new Store instance based on the provided
// configuration.
func NewStoreFromConfig(cfg Config) (Store, error) {
	if cfg.ProbeInterval == 0 {
		cfg.ProbeInterval = 5 * time.Second
	}
	if cfg.StartupProbeTimeout == 0 {
		cfg.StartupProbeTimeout = time.Second
	}

	switch cfg.Backend {
	case BackendMemory:
		factory, exists := factories[BackendMemory]
		if !exists {
			return nil, fmt.Errorf("memory backend not registered")
		}
		return factory(cfg)

	case BackendRedis:
		return newRedisStoreWithFailover(cfg)

	default:
		return nil, fmt.Errorf("unsupported backend: %s (supported: %s, %s)",
			cfg.Backend, BackendMemory, BackendRedis)
	}
}

func newRedisStoreWithFailover(cfg Config) (Store, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("redis URL is required when backend is 'redis'")
	}

	redisFactory, exists := factories[BackendRedis]
	if !exists {
		return nil, fmt.Errorf("redis backend not registered")
	}

	primary, err := redisFactory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis store: %w", err)
	}

	if !cfg.FailoverEnabled {
		return primary, nil
	}

	memoryFactory, exists := factories[BackendMemory]
	if !exists {
		return nil, fmt.Errorf("memory backend not registered")
	}
	fallback, err := memoryFactory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory store for failover: %w", err)
	}

	// Probe Redis once at startup so we start on the right side of the fence.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StartupProbeTimeout)
	defer cancel()

	if err := primary.Ping(ctx); err != nil {
		if cfg.Logger != nil {
			cfg.Logger("Redis unavailable at startup, starting on in-memory store", "error", err)
		}
		return NewFailoverStoreWithFallbackActive(primary, fallback, cfg.ProbeInterval, cfg.Logger), nil
	}

	return NewFailoverStore(primary, fallback, cfg.ProbeInterval, cfg.Logger), nil
}
