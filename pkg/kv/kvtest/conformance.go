// Package kvtest provides conformance tests for kv.Store implementations.
package kvtest

import (
	"context"
	"errors"
	"testing"

	"github.com/LeSteak11/social-media-content-organizer/pkg/kv"
)

// StoreFactory creates a fresh Store instance for testing.
type StoreFactory func(t *testing.T) kv.Store

// RunConformanceTests runs all conformance tests against a Store
// implementation.
func RunConformanceTests(t *testing.T, factory StoreFactory) {
	t.Run("StringOperations", func(t *testing.T) {
		testStringOperations(t, factory)
	})
	t.Run("KeyOperations", func(t *testing.T) {
		testKeyOperations(t, factory)
	})
	t.Run("HashOperations", func(t *testing.T) {
		testHashOperations(t, factory)
	})
	t.Run("HealthCheck", func(t *testing.T) {
		testHealthCheck(t, factory)
	})
}

func testStringOperations(t *testing.T, factory StoreFactory) {
	ctx := context.Background()

	t.Run("SetGet", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		if err := store.Set(ctx, "key", []byte("value")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := store.Get(ctx, "key")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != "value" {
			t.Errorf("expected %q, got %q", "value", got)
		}
	})

	t.Run("GetNonExistent", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		_, err := store.Get(ctx, "missing")
		if !errors.Is(err, kv.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SetStringGetString", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		if err := store.SetString(ctx, "key", "value"); err != nil {
			t.Fatalf("SetString failed: %v", err)
		}
		got, err := store.GetString(ctx, "key")
		if err != nil {
			t.Fatalf("GetString failed: %v", err)
		}
		if got != "value" {
			t.Errorf("expected %q, got %q", "value", got)
		}
	})

	t.Run("OverwriteValue", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		if err := store.SetString(ctx, "key", "first"); err != nil {
			t.Fatalf("SetString failed: %v", err)
		}
		if err := store.SetString(ctx, "key", "second"); err != nil {
			t.Fatalf("SetString failed: %v", err)
		}
		got, err := store.GetString(ctx, "key")
		if err != nil {
			t.Fatalf("GetString failed: %v", err)
		}
		if got != "second" {
			t.Errorf("expected %q, got %q", "second", got)
		}
	})
}

func testKeyOperations(t *testing.T, factory StoreFactory) {
	ctx := context.Background()

	t.Run("Del", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		if err := store.SetString(ctx, "a", "1"); err != nil {
			t.Fatalf("SetString failed: %v", err)
		}
		if err := store.SetString(ctx, "b", "2"); err != nil {
			t.Fatalf("SetString failed: %v", err)
		}

		deleted, err := store.Del(ctx, "a", "b", "missing")
		if err != nil {
			t.Fatalf("Del failed: %v", err)
		}
		if deleted != 2 {
			t.Errorf("expected 2 deleted, got %d", deleted)
		}
		if _, err := store.Get(ctx, "a"); !errors.Is(err, kv.ErrNotFound) {
			t.Errorf("expected ErrNotFound after Del, got %v", err)
		}
	})

	t.Run("Exists", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		if err := store.SetString(ctx, "present", "1"); err != nil {
			t.Fatalf("SetString failed: %v", err)
		}

		n, err := store.Exists(ctx, "present", "missing")
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 existing key, got %d", n)
		}
	})
}

func testHashOperations(t *testing.T, factory StoreFactory) {
	ctx := context.Background()

	t.Run("HSetHGet", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		if err := store.HSet(ctx, "hash", "field", []byte("value")); err != nil {
			t.Fatalf("HSet failed: %v", err)
		}
		got, err := store.HGet(ctx, "hash", "field")
		if err != nil {
			t.Fatalf("HGet failed: %v", err)
		}
		if string(got) != "value" {
			t.Errorf("expected %q, got %q", "value", got)
		}
	})

	t.Run("HGetMissingField", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		if err := store.HSet(ctx, "hash", "field", []byte("value")); err != nil {
			t.Fatalf("HSet failed: %v", err)
		}
		if _, err := store.HGet(ctx, "hash", "other"); !errors.Is(err, kv.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("HGetAll", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		if err := store.HSet(ctx, "hash", "a", []byte("1")); err != nil {
			t.Fatalf("HSet failed: %v", err)
		}
		if err := store.HSet(ctx, "hash", "b", []byte("2")); err != nil {
			t.Fatalf("HSet failed: %v", err)
		}

		all, err := store.HGetAll(ctx, "hash")
		if err != nil {
			t.Fatalf("HGetAll failed: %v", err)
		}
		if len(all) != 2 || string(all["a"]) != "1" || string(all["b"]) != "2" {
			t.Errorf("unexpected hash contents: %v", all)
		}
	})

	t.Run("HGetAllMissingKey", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		if _, err := store.HGetAll(ctx, "missing"); !errors.Is(err, kv.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("HDel", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		if err := store.HSet(ctx, "hash", "a", []byte("1")); err != nil {
			t.Fatalf("HSet failed: %v", err)
		}
		if err := store.HSet(ctx, "hash", "b", []byte("2")); err != nil {
			t.Fatalf("HSet failed: %v", err)
		}

		deleted, err := store.HDel(ctx, "hash", "a", "missing")
		if err != nil {
			t.Fatalf("HDel failed: %v", err)
		}
		if deleted != 1 {
			t.Errorf("expected 1 deleted, got %d", deleted)
		}
		if _, err := store.HGet(ctx, "hash", "a"); !errors.Is(err, kv.ErrNotFound) {
			t.Errorf("expected ErrNotFound after HDel, got %v", err)
		}
	})
}

func testHealthCheck(t *testing.T, factory StoreFactory) {
	store := factory(t)
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
