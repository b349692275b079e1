package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funnelkit/leadmail/internal/api"
	"github.com/funnelkit/leadmail/internal/catalog"
	"github.com/funnelkit/leadmail/internal/leads"
	"github.com/funnelkit/leadmail/internal/mailer"
	"github.com/funnelkit/leadmail/internal/mailtmpl"
	"github.com/funnelkit/leadmail/pkg/environment"
	"github.com/funnelkit/leadmail/pkg/logger"
	"github.com/funnelkit/leadmail/pkg/ratelimit"
	"github.com/funnelkit/leadmail/pkg/requestid"
)

func newRouter(t *testing.T, limiter ratelimit.Limiter) *chi.Mux {
	t.Helper()

	log := logger.New(logger.WithOutput(io.Discard))

	cat, err := catalog.New([]catalog.Product{
		{Slug: "mitolyn", Name: "Mitolyn", EbookFilename: "mitolyn-guide.pdf", OfferURL: "https://example.com/mitolyn"},
	})
	require.NoError(t, err)

	recorder, err := leads.NewRecorder(leads.Config{Dir: t.TempDir()}, log)
	require.NoError(t, err)

	resolver := mailtmpl.NewResolver(mailtmpl.Config{Dir: t.TempDir()}, log)
	dispatcher := mailer.NewDispatcher(&mockSender{}, mailer.Config{
		SenderEmail: "team@example.com",
		EbooksDir:   t.TempDir(),
	}, log)

	h := api.NewHandler(cat, recorder, resolver, dispatcher, environment.Development, log)
	return api.NewRouter(h, api.RouterConfig{CORSOrigin: "*"}, limiter)
}

func TestRouter_NotFound(t *testing.T) {
	t.Parallel()

	router := newRouter(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"unknown path", http.MethodGet, "/nope"},
		{"unknown api path", http.MethodGet, "/api/nope"},
		{"wrong method", http.MethodGet, "/api/submit-email"},
		{"wrong method on products", http.MethodDelete, "/api/products"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "Endpoint not found", body["message"])
		})
	}
}

func TestRouter_RateLimitsAPI(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(), 2, time.Minute)
	require.NoError(t, err)
	router := newRouter(t, limiter)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "203.0.113.9:4567"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/api/products").Code)
	assert.Equal(t, http.StatusOK, get("/api/products").Code)

	rec := get("/api/products")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Too many requests, please try again later.", body["message"])

	// The health endpoint stays reachable for exhausted clients.
	assert.Equal(t, http.StatusOK, get("/health").Code)
}

func TestRouter_RateLimitIsPerClient(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(), 1, time.Minute)
	require.NoError(t, err)
	router := newRouter(t, limiter)

	get := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, get("203.0.113.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, get("203.0.113.1:2000"))
	assert.Equal(t, http.StatusOK, get("203.0.113.2:1000"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	router := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/submit-email", nil)
	req.Header.Set("Origin", "https://landing.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestRouter_AssignsRequestID(t *testing.T) {
	t.Parallel()

	router := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get(requestid.Header))
}

func TestRouter_RecoversPanic(t *testing.T) {
	t.Parallel()

	router := newRouter(t, nil)
	router.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal server error", body["message"])
}

func TestRouter_LargeBodyRejected(t *testing.T) {
	t.Parallel()

	router := newRouter(t, nil)

	huge := `{"name":"` + strings.Repeat("a", 2<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/submit-email", strings.NewReader(huge))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
