package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsCarryStatus(t *testing.T) {
	tests := []struct {
		err    *ServiceError
		code   ErrorCode
		status int
	}{
		{Validation("bad input"), CodeValidation, http.StatusBadRequest},
		{Unauthorized("no token"), CodeUnauthenticated, http.StatusUnauthorized},
		{InvalidToken(nil), CodeInvalidToken, http.StatusUnauthorized},
		{Forbidden("nope"), CodeForbidden, http.StatusForbidden},
		{NotFound("absent"), CodeNotFound, http.StatusNotFound},
		{Conflict("taken"), CodeConflict, http.StatusConflict},
		{Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if tt.err.Code != tt.code {
			t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
		}
		if tt.err.HTTPStatus != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.code, tt.err.HTTPStatus, tt.status)
		}
	}
}

func TestGetServiceErrorUnwrapsChain(t *testing.T) {
	inner := Conflict("email already exists")
	wrapped := fmt.Errorf("register: %w", inner)

	got := GetServiceError(wrapped)
	if got == nil || got.Code != CodeConflict {
		t.Fatalf("expected conflict, got %+v", got)
	}

	if GetServiceError(stderrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestIsCode(t *testing.T) {
	err := NotFound("order not found")
	if !IsCode(err, CodeNotFound) {
		t.Fatal("expected IsCode match")
	}
	if IsCode(err, CodeConflict) {
		t.Fatal("unexpected IsCode match")
	}
	if IsCode(nil, CodeNotFound) {
		t.Fatal("nil error must not match")
	}
}

func TestInternalWrapsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Internal("create user", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
}

func TestWithDetails(t *testing.T) {
	err := Conflict("product has orders").WithDetails("orders", 3)
	if err.Details["orders"] != 3 {
		t.Fatalf("details = %v", err.Details)
	}
}
