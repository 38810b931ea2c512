package app

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"spaces/pkg/config"
	"spaces/pkg/logger"
	"spaces/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type routes func(*httprouter.Router)

func (f routes) RegisterRoutes(r *httprouter.Router) { f(r) }

func testApp(t *testing.T, rateLimit int) *Application {
	t.Helper()
	cfg := &config.Config{
		Port:              "0",
		Log:               logger.Discard(),
		RateLimitRequests: rateLimit,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1024,
		ShutdownTimeout:   time.Second,
	}

	calls := 0
	api := routes(func(r *httprouter.Router) {
		r.POST("/api/v1/echo", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			calls++
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"call":` + strconv.Itoa(calls) + `}`))
		})
		r.GET("/api/v1/panic", func(http.ResponseWriter, *http.Request, httprouter.Params) {
			panic("boom")
		})
	})
	health := routes(func(r *httprouter.Router) {
		r.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusOK)
		})
	})

	a := NewApplication(cfg)
	a.SetApp(api, health)
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})
	return a
}

func serve(a *Application, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func TestApplication_MiddlewareStack(t *testing.T) {
	a := testApp(t, 100)
	jsonHeader := map[string]string{"Content-Type": "application/json"}

	rec := serve(a, http.MethodPost, "/api/v1/echo", "{}", nil)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("missing content type: %d", rec.Code)
	}

	rec = serve(a, http.MethodPost, "/api/v1/echo", strings.Repeat("x", 2048), jsonHeader)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body: %d", rec.Code)
	}

	rec = serve(a, http.MethodGet, "/api/v1/panic", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("panic: %d", rec.Code)
	}

	rec = serve(a, http.MethodPost, "/api/v1/echo", "{}", jsonHeader)
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("no request ID assigned")
	}
}

func TestApplication_IdempotentReplay(t *testing.T) {
	a := testApp(t, 100)
	headers := map[string]string{"Content-Type": "application/json", IdempotencyHeader: "abc-123"}

	first := serve(a, http.MethodPost, "/api/v1/echo", "{}", headers)
	second := serve(a, http.MethodPost, "/api/v1/echo", "{}", headers)

	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("statuses = %d, %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("replayed body %q differs from %q", second.Body.String(), first.Body.String())
	}
}

func TestApplication_HealthBypassesRateLimit(t *testing.T) {
	a := testApp(t, 1)
	jsonHeader := map[string]string{"Content-Type": "application/json"}

	if rec := serve(a, http.MethodPost, "/api/v1/echo", "{}", jsonHeader); rec.Code != http.StatusCreated {
		t.Fatalf("first request: %d", rec.Code)
	}
	if rec := serve(a, http.MethodPost, "/api/v1/echo", "{}", jsonHeader); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: %d", rec.Code)
	}
	for range 3 {
		if rec := serve(a, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
			t.Errorf("health: %d", rec.Code)
		}
	}
}
