package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"staybook/pkg/jsonv"
	"staybook/pkg/logger"
)

// ErrUnavailable is returned without calling the API while the breaker is open.
var ErrUnavailable = errors.New("booking API unavailable")

// APIError is a non-2xx answer from the booking API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("booking API returned %d: %s", e.StatusCode, e.Message)
}

type HttpClient struct {
	BaseURL    string
	HTTPClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewHttpClient(baseURL string, timeout time.Duration) *HttpClient {
	return &HttpClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithBreaker routes every request through cb.
func (c *HttpClient) WithBreaker(cb *gobreaker.CircuitBreaker) *HttpClient {
	c.breaker = cb
	return c
}

// BreakerSettings trips after maxFailures consecutive transport or 5xx
// failures. 4xx answers are the caller's problem and count as success, and so
// do requests the caller cancelled.
func BreakerSettings(name string, maxFailures int, timeout time.Duration, log *logger.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
		},
	}
}

type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

// Value parses the body leniently; malformed JSON reads as {}.
func (r *Response) Value() jsonv.Value {
	return jsonv.Parse(r.Body)
}

func (c *HttpClient) GET(ctx context.Context, path string) (*Response, error) {
	return c.request(ctx, http.MethodGet, path, nil)
}

func (c *HttpClient) POST(ctx context.Context, path string, body any) (*Response, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

func (c *HttpClient) request(ctx context.Context, method, path string, body any) (*Response, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	if c.breaker == nil {
		return c.do(ctx, method, path, payload)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, method, path, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, _ := result.(*Response)
	return resp, err
}

func (c *HttpClient) do(ctx context.Context, method, path string, payload []byte) (*Response, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	out := &Response{Response: resp, Body: respBody}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &APIError{StatusCode: resp.StatusCode, Message: GetErrorMessage(out)}
	}
	return out, nil
}

// GetErrorMessage prefers the body's "error", then "message", then the
// status text.
func GetErrorMessage(resp *Response) string {
	v := resp.Value()
	for _, key := range []string{"error", "message"} {
		if f := v.Get(key); f.IsString() && f.TextOr("") != "" {
			return f.TextOr("")
		}
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
