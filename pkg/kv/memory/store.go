package memory

import (
	"context"
	"sync"

	"github.com/LeSteak11/social-media-content-organizer/pkg/kv"
)

// Store is an in-memory implementation of the kv.Store interface. It is safe
// for concurrent use and is the default backend for development and tests.
type Store struct {
	mu      sync.RWMutex
	strings map[string][]byte
	hashes  map[string]map[string][]byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		strings: make(map[string][]byte),
		hashes:  make(map[string]map[string][]byte),
	}
}

// String operations

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.hashes, key)
	s.strings[key] = value
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.strings[key]
	if !exists {
		return nil, kv.ErrNotFound
	}
	return value, nil
}

func (s *Store) SetString(ctx context.Context, key string, value string) error {
	return s.Set(ctx, key, []byte(value))
}

func (s *Store) GetString(ctx context.Context, key string) (string, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Key operations

func (s *Store) Del(ctx context.Context, keys ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for _, key := range keys {
		if _, exists := s.strings[key]; exists {
			deleted++
		} else if _, exists := s.hashes[key]; exists {
			deleted++
		}
		delete(s.strings, key)
		delete(s.hashes, key)
	}
	return deleted, nil
}

func (s *Store) Exists(ctx context.Context, keys ...string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int64
	for _, key := range keys {
		if _, found := s.strings[key]; found {
			exists++
		} else if _, found := s.hashes[key]; found {
			exists++
		}
	}
	return exists, nil
}

// Hash operations

func (s *Store) HSet(ctx context.Context, key string, field string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hashes[key] == nil {
		delete(s.strings, key) // a key holds exactly one data type
		s.hashes[key] = make(map[string][]byte)
	}
	s.hashes[key][field] = value
	return nil
}

func (s *Store) HGet(ctx context.Context, key string, field string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hash, exists := s.hashes[key]
	if !exists {
		return nil, kv.ErrNotFound
	}
	value, fieldExists := hash[field]
	if !fieldExists {
		return nil, kv.ErrNotFound
	}
	return value, nil
}

func (s *Store) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, exists := s.hashes[key]
	if !exists {
		return 0, nil
	}

	var deleted int64
	for _, field := range fields {
		if _, fieldExists := hash[field]; fieldExists {
			delete(hash, field)
			deleted++
		}
	}
	if len(hash) == 0 {
		delete(s.hashes, key)
	}
	return deleted, nil
}

func (s *Store) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hash, exists := s.hashes[key]
	if !exists {
		return nil, kv.ErrNotFound
	}

	result := make(map[string][]byte, len(hash))
	for field, value := range hash {
		result[field] = value
	}
	return result, nil
}

// Ping always returns nil for the in-memory store (always available).
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close clears all data.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strings = make(map[string][]byte)
	s.hashes = make(map[string]map[string][]byte)
	return nil
}
