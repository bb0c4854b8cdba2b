package error

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEncodeError(t *testing.T) {
	tests := []struct {
		name           string
		code           ErrorCode
		expectedStatus int
	}{
		{name: "bad request", code: BadRequest, expectedStatus: http.StatusBadRequest},
		{name: "invalid credentials", code: InvalidCredentials, expectedStatus: http.StatusUnauthorized},
		{name: "insufficient permissions", code: InsufficientPermissions, expectedStatus: http.StatusForbidden},
		{name: "recipe not found", code: RecipeNotFound, expectedStatus: http.StatusNotFound},
		{name: "already favorited", code: AlreadyFavorited, expectedStatus: http.StatusConflict},
		{name: "already subscribed", code: AlreadySubscribed, expectedStatus: http.StatusConflict},
		{name: "duplicate ingredient", code: DuplicateIngredient, expectedStatus: http.StatusConflict},
		{name: "self subscription", code: SelfSubscription, expectedStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			if err := EncodeError(rec, tt.code, "boom", "123"); err != nil {
				t.Fatalf("EncodeError() error = %v", err)
			}

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var body Error
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshaling body: %v", err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Code, tt.code)
			}
			if body.Message != "boom" {
				t.Errorf("message = %q, want %q", body.Message, "boom")
			}
			if body.ErrorID != "123" {
				t.Errorf("error_id = %q, want %q", body.ErrorID, "123")
			}
		})
	}
}

func TestEncodeInternalError(t *testing.T) {
	rec := httptest.NewRecorder()

	if err := EncodeInternalError(rec, "456"); err != nil {
		t.Fatalf("EncodeInternalError() error = %v", err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var body Error
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshaling body: %v", err)
	}
	if body.Code != InternalServerError {
		t.Errorf("code = %q, want %q", body.Code, InternalServerError)
	}
}

func TestStatusCode_UnknownCode(t *testing.T) {
	if got := ErrorCode("nonsense").StatusCode(); got != http.StatusInternalServerError {
		t.Errorf("StatusCode() = %d, want %d", got, http.StatusInternalServerError)
	}
}
