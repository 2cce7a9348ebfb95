package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LeSteak11/social-media-content-organizer/internal/settings"
	"github.com/LeSteak11/social-media-content-organizer/pkg/kv/memory"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(ctx context.Context) error { return p.err }

type noopMetrics struct{}

func (noopMetrics) RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
}

func newTestHandler(t *testing.T, db Pinger) *Handler {
	t.Helper()
	if db == nil {
		db = &fakePinger{}
	}
	settingsSvc := settings.NewService(memory.New())
	return NewHandler(nil, nil, nil, nil, nil, nil, settingsSvc, db, zap.NewNop().Sugar(), noopMetrics{})
}

func configRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/v1/config", h.GetConfig)
	r.Patch("/v1/config/{key}", h.UpdateConfig)
	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	return r
}

func TestGetConfigReturnsDefaults(t *testing.T) {
	h := newTestHandler(t, nil)
	r := configRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/v1/config", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var cfg map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "15", cfg[settings.KeyTimeConflictWindowMin])
	assert.Equal(t, "7", cfg[settings.KeyMinDaysBeforeReuse])
	assert.Equal(t, "America/Los_Angeles", cfg[settings.KeyTimezone])
	assert.Equal(t, "true", cfg[settings.KeyWarnTimeConflicts])
}

func TestUpdateConfig(t *testing.T) {
	h := newTestHandler(t, nil)
	r := configRouter(h)

	body := strings.NewReader(`{"value": "30"}`)
	req := httptest.NewRequest(http.MethodPatch, "/v1/config/"+settings.KeyTimeConflictWindowMin, body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var cfg map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "30", cfg[settings.KeyTimeConflictWindowMin])
	// Untouched keys keep their defaults in the effective view.
	assert.Equal(t, "7", cfg[settings.KeyMinDaysBeforeReuse])
}

func TestUpdateConfigUnknownKey(t *testing.T) {
	h := newTestHandler(t, nil)
	r := configRouter(h)

	body := strings.NewReader(`{"value": "anything"}`)
	req := httptest.NewRequest(http.MethodPatch, "/v1/config/not_a_setting", body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "UNKNOWN_KEY", resp.Code)
}

func TestUpdateConfigInvalidValue(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric window", settings.KeyTimeConflictWindowMin, "soon"},
		{"negative days", settings.KeyMinDaysBeforeReuse, "-1"},
		{"bad boolean", settings.KeyWarnTimeConflicts, "yep"},
		{"bad timezone", settings.KeyTimezone, "Mars/Olympus_Mons"},
	}

	h := newTestHandler(t, nil)
	r := configRouter(h)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.NewReader(fmt.Sprintf(`{"value": %q}`, tt.value))
			req := httptest.NewRequest(http.MethodPatch, "/v1/config/"+tt.key, body)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "INVALID_VALUE", resp.Code)
		})
	}
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t, nil)
	r := configRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		h := newTestHandler(t, &fakePinger{})
		rec := httptest.NewRecorder()
		configRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "READY", rec.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		h := newTestHandler(t, &fakePinger{err: fmt.Errorf("connection refused")})
		rec := httptest.NewRecorder()
		configRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "DB_UNAVAILABLE", resp.Code)
	})
}

func TestDecodePostUpdate(t *testing.T) {
	newReq := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPatch, "/v1/posts/1", strings.NewReader(body))
	}

	t.Run("absent fields stay nil", func(t *testing.T) {
		in, err := decodePostUpdate(newReq(`{"caption": "hello"}`))
		require.NoError(t, err)

		require.NotNil(t, in.Caption)
		assert.Equal(t, "hello", *in.Caption)
		assert.Nil(t, in.Status)
		assert.Nil(t, in.ScheduledAt)
		assert.False(t, in.ClearScheduledAt)
		assert.Nil(t, in.MediaIDs)
		assert.Nil(t, in.BatchIDs)
	})

	t.Run("null timestamp clears", func(t *testing.T) {
		in, err := decodePostUpdate(newReq(`{"scheduledAt": null, "postedAt": null}`))
		require.NoError(t, err)

		assert.Nil(t, in.ScheduledAt)
		assert.True(t, in.ClearScheduledAt)
		assert.Nil(t, in.PostedAt)
		assert.True(t, in.ClearPostedAt)
	})

	t.Run("timestamp value parses", func(t *testing.T) {
		in, err := decodePostUpdate(newReq(`{"scheduledAt": "2026-06-01T09:30:00Z"}`))
		require.NoError(t, err)

		require.NotNil(t, in.ScheduledAt)
		assert.Equal(t, time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC), in.ScheduledAt.UTC())
		assert.False(t, in.ClearScheduledAt)
	})

	t.Run("empty attachment arrays mean detach all", func(t *testing.T) {
		in, err := decodePostUpdate(newReq(`{"mediaIds": [], "batchIds": [3]}`))
		require.NoError(t, err)

		require.NotNil(t, in.MediaIDs)
		assert.Empty(t, in.MediaIDs)
		assert.Equal(t, []int64{3}, in.BatchIDs)
	})

	t.Run("invalid timestamp rejected", func(t *testing.T) {
		_, err := decodePostUpdate(newReq(`{"scheduledAt": "tomorrow"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduledAt")
	})

	t.Run("wrong types rejected", func(t *testing.T) {
		_, err := decodePostUpdate(newReq(`{"caption": 42}`))
		require.Error(t, err)

		_, err = decodePostUpdate(newReq(`{"mediaIds": "1,2"}`))
		require.Error(t, err)
	})
}
