package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
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
	originalErr := errors.New("database connection failed")
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
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
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

	unwrapped := errors.Unwrap(appErr)
	if unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)
	details := map[string]any{
		"field": "start_time",
		"error": "must be in the future",
	}

	err = err.WithDetails(details)

	if err.Details["field"] != "start_time" {
		t.Errorf("expected field 'start_time', got %v", err.Details["field"])
	}
	if err.Details["error"] != "must be in the future" {
		t.Errorf("expected error 'must be in the future', got %v", err.Details["error"])
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Reservation", "12345")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Details["id"] != "12345" {
		t.Errorf("expected id '12345', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Reservation" {
		t.Errorf("expected resource 'Reservation', got %v", err.Details["resource"])
	}
}

func TestInactive(t *testing.T) {
	err := Inactive("Specialist")

	if err.Code != CodeInactive {
		t.Errorf("expected code %s, got %s", CodeInactive, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Message != "Specialist is not active" {
		t.Errorf("expected message to name the resource, got %s", err.Message)
	}
}

func TestSlotUnavailable(t *testing.T) {
	err := SlotUnavailable("slot already taken")

	if err.Code != CodeSlotUnavailable {
		t.Errorf("expected code %s, got %s", CodeSlotUnavailable, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
}

func TestInvalidTransition(t *testing.T) {
	err := InvalidTransition("cancelled", "confirmed")

	if err.Code != CodeInvalidTransition {
		t.Errorf("expected code %s, got %s", CodeInvalidTransition, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Details["from"] != "cancelled" || err.Details["to"] != "confirmed" {
		t.Errorf("expected transition endpoints in details, got %v", err.Details)
	}
}

func TestUnauthorized(t *testing.T) {
	err := Unauthorized("authentication required")

	if err.Code != CodeUnauthorized {
		t.Errorf("expected code %s, got %s", CodeUnauthorized, err.Code)
	}
	if err.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, err.HTTPStatus)
	}
}

func TestConflict(t *testing.T) {
	err := Conflict("resource already exists")

	if err.Code != CodeConflict {
		t.Errorf("expected code %s, got %s", CodeConflict, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
}

func TestInternal(t *testing.T) {
	originalErr := errors.New("database error")
	err := Internal("internal error occurred", originalErr)

	if err.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, err.Code)
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, err.HTTPStatus)
	}
	if err.Err != originalErr {
		t.Errorf("expected wrapped error to be originalErr")
	}
}

func TestIsAppError(t *testing.T) {
	appErr := NotFound("Reservation")
	regularErr := errors.New("regular error")

	if !IsAppError(appErr) {
		t.Errorf("IsAppError() should return true for AppError")
	}
	if IsAppError(regularErr) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Reservation")
	regularErr := errors.New("regular error")

	result := AsAppError(appErr)
	if result != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	result = AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(SlotUnavailable("taken"), CodeSlotUnavailable) {
		t.Errorf("IsCode() should match the error's code")
	}
	if IsCode(SlotUnavailable("taken"), CodeNotFound) {
		t.Errorf("IsCode() should reject a different code")
	}
	if IsCode(errors.New("plain"), CodeInternal) {
		t.Errorf("IsCode() should reject non-AppError values")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	err := NotFoundWithID("Reservation", "12345")
	data := err.ToJSON()

	if len(data) == 0 {
		t.Fatalf("ToJSON() should return non-empty JSON")
	}

	jsonStr := string(data)
	if !strings.Contains(jsonStr, "NOT_FOUND") {
		t.Errorf("ToJSON() should contain error code")
	}
	if !strings.Contains(jsonStr, "not found") {
		t.Errorf("ToJSON() should contain error message")
	}
}

func TestWriteError(t *testing.T) {
	recorder := httptest.NewRecorder()
	WriteError(recorder, SlotUnavailable("slot already taken"))

	if recorder.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json content type, got %q", ct)
	}

	var response ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if response.Code != CodeSlotUnavailable {
		t.Errorf("expected code %s, got %s", CodeSlotUnavailable, response.Code)
	}
}

func TestWriteError_PlainErrorBecomesInternal(t *testing.T) {
	recorder := httptest.NewRecorder()
	WriteError(recorder, errors.New("something broke"))

	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, recorder.Code)
	}

	var response ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if response.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, response.Code)
	}
}

func TestWriteSuccess(t *testing.T) {
	recorder := httptest.NewRecorder()
	if err := WriteSuccess(recorder, http.StatusCreated, map[string]string{"id": "12345"}); err != nil {
		t.Fatalf("WriteSuccess() returned error: %v", err)
	}

	if recorder.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, recorder.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body["id"] != "12345" {
		t.Errorf("expected id '12345', got %q", body["id"])
	}
}
