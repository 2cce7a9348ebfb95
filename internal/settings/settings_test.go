package settings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeSteak11/social-media-content-organizer/internal/settings"
	"github.com/LeSteak11/social-media-content-organizer/pkg/kv/memory"
)

func TestSnapshotDefaults(t *testing.T) {
	ctx := context.Background()
	svc := settings.NewService(memory.New())

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, "America/Los_Angeles", snap.Get(settings.KeyTimezone))
	assert.True(t, snap.Bool(settings.KeyWarnTimeConflicts))
	assert.True(t, snap.Bool(settings.KeyWarnSameDayCrossAccount))
	assert.Equal(t, 15, snap.Int(settings.KeyTimeConflictWindowMin))
	assert.Equal(t, 7, snap.Int(settings.KeyMinDaysBeforeReuse))
}

func TestSetAndSnapshot(t *testing.T) {
	ctx := context.Background()
	svc := settings.NewService(memory.New())

	require.NoError(t, svc.Set(ctx, settings.KeyMinDaysBeforeReuse, "14"))
	require.NoError(t, svc.Set(ctx, settings.KeyWarnTimeConflicts, "false"))

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, 14, snap.Int(settings.KeyMinDaysBeforeReuse))
	assert.False(t, snap.Bool(settings.KeyWarnTimeConflicts))
	// Untouched keys keep their defaults.
	assert.Equal(t, 15, snap.Int(settings.KeyTimeConflictWindowMin))
}

func TestSetRejectsUnknownKey(t *testing.T) {
	svc := settings.NewService(memory.New())

	err := svc.Set(context.Background(), "nonsense", "1")
	assert.ErrorIs(t, err, settings.ErrUnknownKey)
}

func TestSetValidatesValues(t *testing.T) {
	ctx := context.Background()
	svc := settings.NewService(memory.New())

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-boolean toggle", settings.KeyWarnTimeConflicts, "maybe"},
		{"non-numeric window", settings.KeyTimeConflictWindowMin, "soon"},
		{"negative reuse days", settings.KeyMinDaysBeforeReuse, "-3"},
		{"bogus timezone", settings.KeyTimezone, "Mars/Olympus_Mons"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, svc.Set(ctx, tt.key, tt.value))
		})
	}
}

func TestSnapshotToleratesMalformedStoredValues(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := settings.NewService(store)

	// Values written behind the service's back (or by an older version)
	// must not break reads.
	require.NoError(t, store.HSet(ctx, "organizer:settings", settings.KeyMinDaysBeforeReuse, []byte("soon")))
	require.NoError(t, store.HSet(ctx, "organizer:settings", settings.KeyWarnTimeConflicts, []byte("42x")))
	require.NoError(t, store.HSet(ctx, "organizer:settings", settings.KeyTimezone, []byte("Nowhere/Invalid")))

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, 7, snap.Int(settings.KeyMinDaysBeforeReuse))
	assert.True(t, snap.Bool(settings.KeyWarnTimeConflicts))
	assert.Equal(t, time.UTC, snap.Location())
}

func TestSnapshotLocation(t *testing.T) {
	ctx := context.Background()
	svc := settings.NewService(memory.New())

	require.NoError(t, svc.Set(ctx, settings.KeyTimezone, "Asia/Tokyo"))

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	loc := snap.Location()
	require.NotNil(t, loc)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestSnapshotAll(t *testing.T) {
	ctx := context.Background()
	svc := settings.NewService(memory.New())

	require.NoError(t, svc.Set(ctx, settings.KeyMinDaysBeforeReuse, "30"))

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	all := snap.All()
	assert.Len(t, all, len(settings.Keys()))
	assert.Equal(t, "30", all[settings.KeyMinDaysBeforeReuse])
	assert.Equal(t, "America/Los_Angeles", all[settings.KeyTimezone])
}
