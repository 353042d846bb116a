package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/usage"
	"go-ats-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates id", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/", nil)
		_, err := uuid.Parse(w.Body.String())
		require.NoError(t, err)
		assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
	})

	t.Run("reuses valid inbound id", func(t *testing.T) {
		id := uuid.NewString()
		w := perform(r, http.MethodGet, "/", map[string]string{RequestIDHeader: id})
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("replaces malformed inbound id", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/", map[string]string{RequestIDHeader: "<script>"})
		assert.NotEqual(t, "<script>", w.Body.String())
	})
}

func TestClientKey(t *testing.T) {
	r := gin.New()
	r.Use(ClientKey())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetClientKey(c))
	})

	t.Run("valid client id", func(t *testing.T) {
		id := uuid.NewString()
		w := perform(r, http.MethodGet, "/", map[string]string{ClientIDHeader: id})
		assert.Equal(t, "cid:"+id, w.Body.String())
	})

	t.Run("invalid client id falls back to IP", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/", map[string]string{ClientIDHeader: "not-a-uuid"})
		assert.Equal(t, "ip:192.0.2.1", w.Body.String())
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperror.BadRequest("bad input"))
	})
	r.GET("/internal", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: secret detail"))
	})

	w := perform(r, http.MethodGet, "/app", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bad input")

	w = perform(r, http.MethodGet, "/internal", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret detail")
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(CORSConfig{AllowedOrigins: []string{"https://app.example.com/"}, Production: true}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/", map[string]string{"Origin": "https://app.example.com"})
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("localhost rejected in production", func(t *testing.T) {
		w := perform(r, http.MethodOptions, "/", map[string]string{"Origin": "http://localhost:3000"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight allowed", func(t *testing.T) {
		w := perform(r, http.MethodOptions, "/", map[string]string{"Origin": "https://app.example.com"})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

type brokenStore struct{}

func (brokenStore) Load(context.Context, string) (domain.UsageRecord, bool, error) {
	return domain.UsageRecord{}, false, errors.New("down")
}

func (brokenStore) Increment(context.Context, string, time.Time, time.Duration) (domain.UsageRecord, error) {
	return domain.UsageRecord{}, errors.New("down")
}

func (brokenStore) Delete(context.Context, string) error { return errors.New("down") }

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("rejects past the limit", func(t *testing.T) {
		cfg := DefaultRateLimitConfig()
		cfg.Limit = 2
		r := gin.New()
		r.Use(RateLimitMiddleware(cfg))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := perform(r, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

		w = perform(r, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = perform(r, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("sweeps expired entries", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)

		store := usage.NewMemoryStore()
		cfg := DefaultRateLimitConfig()
		cfg.Window = 50 * time.Millisecond
		cfg.CleanupInterval = 5 * time.Millisecond
		cfg.Context = ctx
		cfg.Store = store
		r := gin.New()
		r.Use(RateLimitMiddleware(cfg))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		for _, ip := range []string{"192.0.2.10", "192.0.2.11"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = ip + ":1234"
			r.ServeHTTP(httptest.NewRecorder(), req)
		}
		require.Equal(t, 2, store.Len())

		assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("fails open on store error", func(t *testing.T) {
		cfg := DefaultRateLimitConfig()
		cfg.Store = brokenStore{}
		r := gin.New()
		r.Use(RateLimitMiddleware(cfg))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", nil).Code)
	})

	t.Run("fails closed on store error", func(t *testing.T) {
		cfg := DefaultRateLimitConfig()
		cfg.Store = brokenStore{}
		cfg.FailClosed = true
		r := gin.New()
		r.Use(RateLimitMiddleware(cfg))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusServiceUnavailable, perform(r, http.MethodGet, "/", nil).Code)
	})
}
