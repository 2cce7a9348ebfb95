package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// The middleware under test here never records metrics, so none are wired.
func newTestMiddleware(t *testing.T) *Middleware {
	t.Helper()
	return NewMiddleware(zap.NewNop().Sugar(), nil)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func TestSecurityHeaders(t *testing.T) {
	m := newTestMiddleware(t)

	rec := httptest.NewRecorder()
	m.SecurityHeaders(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestCORSMirrorsUnlistedOrigin(t *testing.T) {
	m := newTestMiddleware(t)
	handler := m.CORS([]string{"http://localhost:3000"})(okHandler())

	t.Run("listed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin mirrored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://192.168.1.20:5173")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "http://192.168.1.20:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimit(t *testing.T) {
	m := newTestMiddleware(t)
	// 60 rpm gives a burst of 10.
	handler := m.RateLimit(60)(okHandler())

	var limited bool
	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited, "expected at least one request to be rate limited")
}

func TestRecoverer(t *testing.T) {
	m := newTestMiddleware(t)
	handler := m.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	m := newTestMiddleware(t)

	rec := httptest.NewRecorder()
	m.RequestID(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestShouldCompress(t *testing.T) {
	assert.True(t, shouldCompress("application/json"))
	assert.True(t, shouldCompress("text/plain; charset=utf-8"))
	assert.False(t, shouldCompress("image/png"))
	assert.False(t, shouldCompress("application/octet-stream"))
}
