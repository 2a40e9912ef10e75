package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type checkoutPayload struct {
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerPhone string `json:"customerPhone" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders",
			strings.NewReader(`{"customerName":"Alice","customerPhone":"+250780000001"}`))

		var payload checkoutPayload
		if err := DecodeAndValidate(req, &payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payload.CustomerName != "Alice" {
			t.Errorf("name %q", payload.CustomerName)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{not json`))

		var payload checkoutPayload
		if err := DecodeAndValidate(req, &payload); err == nil {
			t.Error("expected a decode error")
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders",
			strings.NewReader(`{"customerName":"Alice"}`))

		var payload checkoutPayload
		err := DecodeAndValidate(req, &payload)
		if err == nil {
			t.Fatal("expected a validation error")
		}

		formatted := FormatValidationErrors(err)
		if len(formatted) != 1 {
			t.Fatalf("got %d validation errors, want 1", len(formatted))
		}
		if formatted[0].Field != "CustomerPhone" {
			t.Errorf("field %q, want CustomerPhone", formatted[0].Field)
		}
		if formatted[0].Message != "This field is required" {
			t.Errorf("message %q", formatted[0].Message)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders",
			strings.NewReader(`{"customerName":"Alice","customerPhone":"123","email":"not-an-email"}`))

		var payload checkoutPayload
		err := DecodeAndValidate(req, &payload)
		if err == nil {
			t.Fatal("expected a validation error")
		}
		formatted := FormatValidationErrors(err)
		if len(formatted) != 1 || formatted[0].Message != "Invalid email format" {
			t.Errorf("unexpected validation errors: %+v", formatted)
		}
	})
}
