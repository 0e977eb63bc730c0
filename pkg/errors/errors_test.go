package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("mongo connection lost")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "booking not found",
			},
			expected: "NOT_FOUND: booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("mongo connection lost"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: mongo connection lost)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if errors.Unwrap(appErr) != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)
	err = err.WithDetails(map[string]any{
		"field": "check_in",
		"error": "invalid format",
	})

	if err.Details["field"] != "check_in" {
		t.Errorf("expected field 'check_in', got %v", err.Details["field"])
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "65f1c0ffee0000000000aaaa")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Details["id"] != "65f1c0ffee0000000000aaaa" {
		t.Errorf("unexpected id detail: %v", err.Details["id"])
	}
	if err.Details["resource"] != "Booking" {
		t.Errorf("unexpected resource detail: %v", err.Details["resource"])
	}
}

func TestConflict(t *testing.T) {
	err := Conflict("Only 1 rooms available.")

	if err.Code != CodeConflict {
		t.Errorf("expected code %s, got %s", CodeConflict, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
}

func TestForbidden(t *testing.T) {
	err := Forbidden("You do not have permission to cancel this booking.")

	if err.HTTPStatus != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, err.HTTPStatus)
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(New(CodeConflict, "conflict", http.StatusConflict)) {
		t.Error("expected IsAppError to be true for AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("expected IsAppError to be false for plain error")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := New(CodeNotFound, "listing not found", http.StatusNotFound)
	if AsAppError(appErr) != appErr {
		t.Error("expected AsAppError to return the same AppError")
	}

	converted := AsAppError(errors.New("boom"))
	if converted.Code != CodeInternal {
		t.Errorf("expected plain error to convert to %s, got %s", CodeInternal, converted.Code)
	}
}

func TestAppError_ToJSON(t *testing.T) {
	err := Validation("Booking validation failed", map[string]any{"field": "rooms_booked"})

	var resp ErrorResponse
	if jsonErr := json.Unmarshal(err.ToJSON(), &resp); jsonErr != nil {
		t.Fatalf("ToJSON produced invalid JSON: %v", jsonErr)
	}
	if resp.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, resp.Code)
	}
	if resp.Details["field"] != "rooms_booked" {
		t.Errorf("unexpected details: %v", resp.Details)
	}
}
