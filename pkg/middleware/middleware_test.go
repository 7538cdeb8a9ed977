package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRequestLogging_AssignsRequestID(t *testing.T) {
	var seen string
	h := RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("request id %q, header %q", seen, rec.Header().Get(RequestIDHeader))
	}

	const given = "6f1c2b1e-8d5a-4c1e-9b7a-2f0e4d3c2b1a"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, given)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != given {
		t.Errorf("caller request id should be kept, got %q", seen)
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), apperrors.CodeInternal) {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(logger.Discard())(ok)

	tests := []struct {
		method      string
		contentType string
		want        int
	}{
		{http.MethodGet, "", http.StatusNoContent},
		{http.MethodPost, "application/json; charset=utf-8", http.StatusNoContent},
		{http.MethodPost, "text/plain", http.StatusUnsupportedMediaType},
		{http.MethodPost, "", http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/", strings.NewReader("{}"))
		if tt.contentType != "" {
			req.Header.Set("Content-Type", tt.contentType)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s %q: got %d, want %d", tt.method, tt.contentType, rec.Code, tt.want)
		}
	}
}

func TestRateLimit_PerIP(t *testing.T) {
	limiter := NewIPRateLimiter(2, time.Minute, logger.Discard())
	defer limiter.Stop()
	h := RateLimit(limiter)(ok)

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if call("10.0.0.1") != http.StatusNoContent || call("10.0.0.1") != http.StatusNoContent {
		t.Fatal("burst should be allowed")
	}
	if got := call("10.0.0.1"); got != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", got)
	}
	if got := call("10.0.0.2"); got != http.StatusNoContent {
		t.Errorf("other IP = %d", got)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if ClientIP(req) != "192.0.2.1" {
		t.Errorf("got %q", ClientIP(req))
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if ClientIP(req) != "203.0.113.9" {
		t.Errorf("got %q", ClientIP(req))
	}
}

func TestRequestTimeout(t *testing.T) {
	h := RequestTimeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusGatewayTimeout || !strings.Contains(rec.Body.String(), apperrors.CodeTimeout) {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}
