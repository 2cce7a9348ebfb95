package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/LeSteak11/social-media-content-organizer/pkg/kv"
	"github.com/redis/go-redis/v9"
)

// Store is a Redis-backed implementation of the kv.Store interface.
type Store struct {
	client *redis.Client
}

// New creates a new Redis-backed store from a redis:// URL.
func New(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return &Store{client: redis.NewClient(opts)}, nil
}

// IsConnectionError reports whether err is a connection-level failure that
// should trigger failover, as opposed to a data-level miss.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	// redis.Nil means "key not found", not a broken connection.
	if errors.Is(err, redis.Nil) {
		return false
	}

	// Context cancellation by the caller should not trigger failover.
	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var sysErr syscall.Errno
	if errors.As(err, &sysErr) {
		switch sysErr {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED, syscall.ETIMEDOUT:
			return true
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, fragment := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"network is unreachable",
		"timeout",
		"connection closed",
		"eof",
	} {
		if strings.Contains(errStr, fragment) {
			return true
		}
	}

	return false
}

func translateErr(err error) error {
	if errors.Is(err, redis.Nil) {
		return kv.ErrNotFound
	}
	return err
}

// String operations

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, translateErr(err)
	}
	return data, nil
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
	return s.client.Del(ctx, keys...).Result()
}

func (s *Store) Exists(ctx context.Context, keys ...string) (int64, error) {
	return s.client.Exists(ctx, keys...).Result()
}

// Hash operations

func (s *Store) HSet(ctx context.Context, key string, field string, value []byte) error {
	return s.client.HSet(ctx, key, field, value).Err()
}

func (s *Store) HGet(ctx context.Context, key string, field string) ([]byte, error) {
	data, err := s.client.HGet(ctx, key, field).Bytes()
	if err != nil {
		return nil, translateErr(err)
	}
	return data, nil
}

func (s *Store) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	return s.client.HDel(ctx, key, fields...).Result()
}

func (s *Store) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	values, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, kv.ErrNotFound
	}

	result := make(map[string][]byte, len(values))
	for field, value := range values {
		result[field] = []byte(value)
	}
	return result, nil
}

// Ping checks connectivity to the Redis server.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
