package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	apperrors "staybook/pkg/errors"
)

// timeoutWriter drops writes once the deadline response has been sent.
type timeoutWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	timedOut bool
	written  bool
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.written {
		return
	}
	tw.written = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	tw.written = true
	return tw.ResponseWriter.Write(b)
}

// RequestTimeout bounds each request. Upstream calls see the deadline through
// the request context; when it passes first the client gets a TIMEOUT error.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)
			tw := &timeoutWriter{ResponseWriter: w}

			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case <-done:
			case p := <-panicked:
				panic(p)
			case <-ctx.Done():
				tw.mu.Lock()
				tw.timedOut = true
				written := tw.written
				tw.mu.Unlock()
				if !written {
					_ = apperrors.WriteError(w, apperrors.Timeout("Request timeout"))
				}
			}
		})
	}
}
