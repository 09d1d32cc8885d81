package model

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ============================================================================
// Error() Interface Tests
// ============================================================================

func TestProblemDetails_Error_ReturnsFormattedMessage(t *testing.T) {
	t.Parallel()

	pd := &ProblemDetails{
		Status: http.StatusNotFound,
		Title:  "Not Found",
		Detail: "habit not found",
	}

	errMsg := pd.Error()

	for _, want := range []string{"404", "Not Found", "habit not found"} {
		if !strings.Contains(errMsg, want) {
			t.Errorf("error message should contain %q, got: %s", want, errMsg)
		}
	}
}

// ============================================================================
// WriteJSON Tests
// ============================================================================

func TestProblemDetails_WriteJSON(t *testing.T) {
	t.Parallel()

	pd := NewStoreError("could not save, change reverted")
	rr := httptest.NewRecorder()

	pd.WriteJSON(rr)

	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected Content-Type 'application/problem+json', got %q", ct)
	}
	if rr.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", rr.Code)
	}

	var decoded ProblemDetails
	if err := json.NewDecoder(rr.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if decoded.Code != ErrCodeStore {
		t.Errorf("expected code %d, got %d", ErrCodeStore, decoded.Code)
	}
	if decoded.Detail != "could not save, change reverted" {
		t.Errorf("unexpected detail %q", decoded.Detail)
	}
}

// ============================================================================
// Constructor Tests
// ============================================================================

func TestConstructors_StatusAndCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		pd     *ProblemDetails
		status int
		code   ErrorCode
		kind   string
	}{
		{"unauthorized", NewUnauthorizedError("missing key"), http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized"},
		{"not found", NewNotFoundError("habit"), http.StatusNotFound, ErrCodeNotFound, "not-found"},
		{"conflict", NewConflictError("dup"), http.StatusConflict, ErrCodeConflict, "conflict"},
		{"internal", NewInternalError(""), http.StatusInternalServerError, ErrCodeInternal, "internal"},
		{"store", NewStoreError("x"), http.StatusBadGateway, ErrCodeStore, "store"},
		{"store unavailable", NewStoreUnavailableError("x"), http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "store-unavailable"},
		{"bad request", NewBadRequestError("x"), http.StatusBadRequest, ErrCodeInvalidInput, "bad-request"},
		{"rate limited", NewRateLimitError(30), http.StatusTooManyRequests, ErrCodeRateLimited, "rate-limited"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.pd.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.pd.Status)
			}
			if tt.pd.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, tt.pd.Code)
			}
			if tt.pd.Type != problemTypeBase+tt.kind {
				t.Errorf("expected type %q, got %q", problemTypeBase+tt.kind, tt.pd.Type)
			}
		})
	}
}

func TestNewNotFoundError_NamesResource(t *testing.T) {
	t.Parallel()

	pd := NewNotFoundError("habit")
	if pd.Detail != "habit not found" {
		t.Errorf("unexpected detail %q", pd.Detail)
	}
}

func TestNewInternalError_DefaultDetail(t *testing.T) {
	t.Parallel()

	if pd := NewInternalError(""); pd.Detail == "" {
		t.Error("expected a default detail")
	}
	if pd := NewInternalError("boom"); pd.Detail != "boom" {
		t.Errorf("expected custom detail, got %q", pd.Detail)
	}
}

func TestNewRateLimitError_IncludesRetryAfter(t *testing.T) {
	t.Parallel()

	pd := NewRateLimitError(42)
	if !strings.Contains(pd.Detail, "42") {
		t.Errorf("detail should mention retry seconds, got %q", pd.Detail)
	}
}

// ============================================================================
// Validation Error Tests
// ============================================================================

func TestNewValidationError_Detail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		errors []FieldError
		want   string
	}{
		{"none", nil, "One or more fields failed validation"},
		{"one", []FieldError{{Field: "name", Message: "name is required"}}, "name: name is required"},
		{
			"several",
			[]FieldError{
				{Field: "name", Message: "name is required"},
				{Field: "xp_value", Message: "too big"},
				{Field: "category", Message: "unknown"},
			},
			"name: name is required (and 2 more errors)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pd := NewValidationError(tt.errors)
			if pd.Status != http.StatusUnprocessableEntity {
				t.Errorf("expected 422, got %d", pd.Status)
			}
			if pd.Detail != tt.want {
				t.Errorf("expected detail %q, got %q", tt.want, pd.Detail)
			}
			if len(pd.Errors) != len(tt.errors) {
				t.Errorf("expected %d field errors, got %d", len(tt.errors), len(pd.Errors))
			}
		})
	}
}
