// Package kv provides a small key-value store abstraction with in-memory and
// Redis-backed implementations.
//
// The Store interface covers plain string keys and hashes, which is all the
// organizer needs for its settings store. The in-memory implementation is the
// default for development and tests; the Redis adapter wraps go-redis/v9 for
// deployments where settings must survive restarts, with automatic failover
// back to memory when Redis is unreachable.
//
// Example usage:
//
//	store, err := kv.NewStoreFromConfig(kv.Config{Backend: kv.BackendMemory})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	if err := store.HSet(ctx, "settings", "timezone", []byte("UTC")); err != nil {
//		log.Fatal(err)
//	}
//
//	value, err := store.HGet(ctx, "settings", "timezone")
//	if errors.Is(err, kv.ErrNotFound) {
//		// field was never written
//	}
package kv
