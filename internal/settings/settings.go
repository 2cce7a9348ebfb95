// Package settings stores user-tunable scheduling preferences in a kv.Store
// hash. Every read returns a point-in-time Snapshot so a change made through
// the config API is visible to the next conflict check without a restart.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/LeSteak11/social-media-content-organizer/pkg/kv"
)

// hashKey is the kv hash under which all settings fields live.
const hashKey = "organizer:settings"

// Setting keys.
const (
	KeyTimezone                = "timezone"
	KeyWarnTimeConflicts       = "warn_time_conflicts"
	KeyWarnSameDayCrossAccount = "warn_same_day_cross_account"
	KeyTimeConflictWindowMin   = "time_conflict_window_minutes"
	KeyMinDaysBeforeReuse      = "min_days_before_reuse"
)

// Defaults applied when a key is absent or holds an unparsable value.
var defaults = map[string]string{
	KeyTimezone:                "America/Los_Angeles",
	KeyWarnTimeConflicts:       "true",
	KeyWarnSameDayCrossAccount: "true",
	KeyTimeConflictWindowMin:   "15",
	KeyMinDaysBeforeReuse:      "7",
}

// Keys returns all known setting keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ErrUnknownKey is returned when setting a key outside the known set.
var ErrUnknownKey = errors.New("unknown setting key")

// Snapshot is an immutable view of the settings at one point in time.
// Accessors never fail; malformed values fall back to defaults so a bad
// config write cannot take conflict checking down.
type Snapshot struct {
	values map[string]string
}

// Get returns the raw string value for key, or the default when unset.
func (s Snapshot) Get(key string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return defaults[key]
}

// Bool parses key as a boolean.
func (s Snapshot) Bool(key string) bool {
	v, err := strconv.ParseBool(s.Get(key))
	if err != nil {
		v, _ = strconv.ParseBool(defaults[key])
	}
	return v
}

// Int parses key as a non-negative integer.
func (s Snapshot) Int(key string) int {
	v, err := strconv.Atoi(s.Get(key))
	if err != nil || v < 0 {
		v, _ = strconv.Atoi(defaults[key])
	}
	return v
}

// Location resolves the configured timezone, falling back to UTC when the
// IANA name does not load.
func (s Snapshot) Location() *time.Location {
	loc, err := time.LoadLocation(s.Get(KeyTimezone))
	if err != nil {
		return time.UTC
	}
	return loc
}

// All returns the effective value of every known setting.
func (s Snapshot) All() map[string]string {
	out := make(map[string]string, len(defaults))
	for key := range defaults {
		out[key] = s.Get(key)
	}
	return out
}

// Service reads and writes settings through a kv.Store.
type Service struct {
	store kv.Store
}

// NewService creates a settings service backed by store.
func NewService(store kv.Store) *Service {
	return &Service{store: store}
}

// Snapshot loads the current settings. An empty store yields a snapshot of
// pure defaults.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	fields, err := s.store.HGetAll(ctx, hashKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return Snapshot{values: map[string]string{}}, nil
		}
		return Snapshot{}, fmt.Errorf("failed to load settings: %w", err)
	}

	values := make(map[string]string, len(fields))
	for key, raw := range fields {
		if _, known := defaults[key]; known {
			values[key] = string(raw)
		}
	}
	return Snapshot{values: values}, nil
}

// Set updates a single setting after validating the key and value.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if _, known := defaults[key]; !known {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err := validate(key, value); err != nil {
		return err
	}
	if err := s.store.HSet(ctx, hashKey, key, []byte(value)); err != nil {
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}
	return nil
}

func validate(key, value string) error {
	switch key {
	case KeyWarnTimeConflicts, KeyWarnSameDayCrossAccount:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("setting %q must be a boolean, got %q", key, value)
		}
	case KeyTimeConflictWindowMin, KeyMinDaysBeforeReuse:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("setting %q must be a non-negative integer, got %q", key, value)
		}
	case KeyTimezone:
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("setting %q must be a valid IANA timezone, got %q", key, value)
		}
	}
	return nil
}
