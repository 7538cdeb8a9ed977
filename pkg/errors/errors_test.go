package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("dial tcp: refused")

	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"missing context", MissingContext("Missing search context. Please search again."), CodeMissingContext, http.StatusBadRequest},
		{"upstream", Upstream("Hotel not found", cause), CodeUpstream, http.StatusBadGateway},
		{"validation", Validation("Please fill all required guest fields.", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"unavailable", Unavailable("booking API", cause), CodeUnavailable, http.StatusServiceUnavailable},
		{"invalid input", InvalidInput("adults must be a number"), CodeInvalidInput, http.StatusBadRequest},
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"timeout", Timeout("request timed out"), CodeTimeout, http.StatusGatewayTimeout},
		{"internal", Internal("boom", cause), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   MissingContext("Missing booking context."),
			expected: "MISSING_CONTEXT: Missing booking context.",
		},
		{
			name:     "with underlying error",
			appErr:   Upstream("Bad Gateway", errors.New("status 502")),
			expected: "UPSTREAM_ERROR: Bad Gateway (caused by: status 502)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("original error")
	appErr := Wrap(cause, CodeInternal, "wrapped", http.StatusInternalServerError)

	if !errors.Is(appErr, cause) {
		t.Errorf("errors.Is should find the wrapped cause")
	}
}

func TestUnavailable_Message(t *testing.T) {
	err := Unavailable("booking API", nil)
	if err.Message != "booking API is temporarily unavailable" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Booking")
	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return the same AppError")
	}

	wrapped := fmt.Errorf("book: %w", appErr)
	if AsAppError(wrapped) != appErr {
		t.Errorf("AsAppError() should unwrap to the AppError")
	}

	plain := errors.New("regular error")
	got := AsAppError(plain)
	if got.Code != CodeInternal || got.Err != plain {
		t.Errorf("AsAppError() should wrap plain errors as internal, got %+v", got)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("step: %w", MissingContext("x"))

	if !HasCode(err, CodeMissingContext) {
		t.Errorf("HasCode should match wrapped code")
	}
	if HasCode(err, CodeUpstream) {
		t.Errorf("HasCode should not match a different code")
	}
	if IsAppError(errors.New("x")) {
		t.Errorf("IsAppError should be false for plain errors")
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := Validation("Please fill all required guest fields.", map[string]any{
		"guests[0].email": "email is required",
	})

	if werr := WriteError(rec, err); werr != nil {
		t.Fatalf("WriteError returned %v", werr)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != CodeValidation || body.Details["guests[0].email"] != "email is required" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestAppError_ToJSON(t *testing.T) {
	data := string(NotFound("Booking").ToJSON())
	if !strings.Contains(data, CodeNotFound) || !strings.Contains(data, "Booking not found") {
		t.Errorf("ToJSON() = %s", data)
	}
}
