package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key or hash field is not found.
var ErrNotFound = errors.New("not found")

// ErrBackendUnavailable is returned when the backend storage is unavailable.
var ErrBackendUnavailable = errors.New("backend unavailable")

// Store defines the interface for a key-value store with hash support.
type Store interface {
	// String operations
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	SetString(ctx context.Context, key string, value string) error
	GetString(ctx context.Context, key string) (string, error)

	// Key operations
	Del(ctx context.Context, keys ...string) (int64, error)
	Exists(ctx context.Context, keys ...string) (int64, error)

	// Hash operations
	HSet(ctx context.Context, key string, field string, value []byte) error
	HGet(ctx context.Context, key string, field string) ([]byte, error)
	HDel(ctx context.Context, key string, fields ...string) (int64, error)
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)

	// Health check
	Ping(ctx context.Context) error

	// Cleanup
	Close() error
}
