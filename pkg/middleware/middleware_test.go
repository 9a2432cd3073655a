package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hitcounter/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig([]string{"https://Example.com", "http://localhost:3000"})

	tests := []struct {
		name         string
		origin       string
		method       string
		expectOrigin string
		expectStatus int
		expectBody   string
	}{
		{
			name:         "exact origin",
			origin:       "https://example.com",
			method:       http.MethodPost,
			expectOrigin: "https://example.com",
			expectStatus: http.StatusOK,
			expectBody:   "OK",
		},
		{
			name:         "origin matched case insensitively",
			origin:       "HTTPS://EXAMPLE.COM",
			method:       http.MethodGet,
			expectOrigin: "HTTPS://EXAMPLE.COM",
			expectStatus: http.StatusOK,
			expectBody:   "OK",
		},
		{
			name:         "unknown origin passes through without headers",
			origin:       "https://evil.example",
			method:       http.MethodPost,
			expectStatus: http.StatusOK,
			expectBody:   "OK",
		},
		{
			name:         "subdomain is not a match",
			origin:       "https://app.example.com",
			method:       http.MethodGet,
			expectStatus: http.StatusOK,
			expectBody:   "OK",
		},
		{
			name:         "no origin",
			method:       http.MethodGet,
			expectStatus: http.StatusOK,
			expectBody:   "OK",
		},
		{
			name:         "preflight allowed",
			origin:       "http://localhost:3000",
			method:       http.MethodOptions,
			expectOrigin: "http://localhost:3000",
			expectStatus: http.StatusNoContent,
		},
		{
			name:         "preflight from unknown origin",
			origin:       "https://evil.example",
			method:       http.MethodOptions,
			expectStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/log", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			CORS(cfg)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectStatus, rec.Code)
			assert.Equal(t, tt.expectBody, rec.Body.String())
			assert.Equal(t, tt.expectOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
			if tt.expectOrigin != "" {
				assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
				assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
				assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}

func TestClientRateLimiter_SlidingWindow(t *testing.T) {
	rl := NewClientRateLimiter(2, time.Minute, nil, logger.Discard())
	defer rl.Stop()

	now := time.Date(2025, 9, 25, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("203.0.113.1"))
	assert.True(t, rl.Allow("203.0.113.1"))
	assert.False(t, rl.Allow("203.0.113.1"))
	assert.True(t, rl.Allow("203.0.113.2"), "other clients have their own window")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("203.0.113.1"), "window slides")
	assert.True(t, rl.Allow(""), "empty key is never limited")
}

func TestClientRateLimiter_EvictIdle(t *testing.T) {
	rl := NewClientRateLimiter(5, time.Minute, nil, logger.Discard())
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.Allow("a")

	now = now.Add(2 * time.Minute)
	rl.evictIdle()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.requests)
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewClientRateLimiter(1, time.Minute, nil, logger.Discard())
	defer rl.Stop()
	handler := RateLimit(rl)(okHandler())

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/log", nil)
		req.Header.Set("X-Forwarded-For", "198.51.100.4")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send().Code)

	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Rate limit exceeded"}`, rec.Body.String())
}

func TestRateLimit_DisabledIsPassThrough(t *testing.T) {
	rl := NewClientRateLimiter(0, time.Minute, nil, logger.Discard())
	defer rl.Stop()
	handler := RateLimit(rl)(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/log", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestDefaultClientKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:41000"
	assert.Equal(t, "192.0.2.10", DefaultClientKeyExtractor(req))

	req.Header.Set("X-Real-IP", "203.0.113.50")
	assert.Equal(t, "203.0.113.50", DefaultClientKeyExtractor(req))
}

func TestBodyLimit(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := BodyLimit(8)(echo)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/log", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/log", strings.NewReader(`{"project":"too long"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.JSONEq(t, `{"error":"Request body exceeds 8 bytes"}`, rec.Body.String())

	// unknown length: the reader enforces the cap
	req := httptest.NewRequest(http.MethodPost, "/log", io.NopCloser(strings.NewReader(`{"project":"too long"}`)))
	req.ContentLength = -1
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf})
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	Recovery(log)(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "Panic recovered")
	assert.Contains(t, buf.String(), "kaboom")
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	RequestTimeout(20*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/log", nil))
	close(release)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.JSONEq(t, `{"error":"Request timeout"}`, rec.Body.String())
}

func TestRequestTimeout_FastHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	RequestTimeout(time.Second)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRequestTimeout_PanicReachesRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("inside timeout")
	})
	handler := Recovery(logger.Discard())(RequestTimeout(time.Second)(panicking))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: logger.DEBUG})

	var seenID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodPost, "/log", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.42")
	rec := httptest.NewRecorder()
	RequestLogging(log)(inner).ServeHTTP(rec, req)

	require.NotEmpty(t, seenID)
	assert.Equal(t, seenID, rec.Header().Get(RequestIDHeader))

	out := buf.String()
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, "203.0.x.x")
	assert.NotContains(t, out, "203.0.113.42", "raw client address must never be logged")
}

func TestMetrics_FoldsUnknownRoutes(t *testing.T) {
	handler := Metrics("/log")(okHandler())

	for _, path := range []string{"/log", "/wp-admin"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
