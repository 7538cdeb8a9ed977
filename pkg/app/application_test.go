package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"staybook/pkg/config"
	"staybook/pkg/logger"
)

type routes func(*httprouter.Router)

func (f routes) RegisterRoutes(r *httprouter.Router) { f(r) }

func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		RequestTimeout:     time.Second,
		ShutdownTimeout:    time.Second,
		RateLimitRequests:  2,
		RateLimitWindow:    time.Minute,
		CORSAllowedOrigins: []string{"https://app.example.com"},
		Log:                logger.Discard(),
	}
}

func newTestApp(t *testing.T) *Application {
	t.Helper()
	ok := func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) { w.WriteHeader(http.StatusOK) }

	a := NewApplication()
	a.SetApp(testConfig(),
		routes(func(r *httprouter.Router) { r.GET("/api/v1/search", ok) }),
		routes(func(r *httprouter.Router) { r.GET("/health", ok) }),
	)
	t.Cleanup(a.rateLimiter.Stop)
	return a
}

func TestCORSPreflight(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got Allow-Origin %q", got)
	}
}

func TestHealthSkipsRateLimit(t *testing.T) {
	a := newTestApp(t)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("health request %d = %d", i, rec.Code)
		}
	}

	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

func TestGracefulShutdownRunsHooks(t *testing.T) {
	a := newTestApp(t)
	var order []string
	a.OnShutdown(func(context.Context) { order = append(order, "kafka") })
	a.OnShutdown(func(context.Context) { order = append(order, "stores") })

	a.gracefulShutdown()

	if len(order) != 2 || order[0] != "kafka" || order[1] != "stores" {
		t.Errorf("order = %v", order)
	}
}
