package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Unwrap(t *testing.T) {
	inner := ErrInsufficientBalance
	err := NewDomainError(CodeInvalidStatus, "cannot commit", inner)

	if !errors.Is(err, ErrInsufficientBalance) {
		t.Error("expected errors.Is to find the wrapped sentinel")
	}
}

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError(CodeNotEmpty, "wallet holds funds", nil)
	want := "[not-empty] wallet holds funds"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsNotFound(t *testing.T) {
	wrapped := fmt.Errorf("loading wallet: %w", ErrEntityNotFound)
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should see through wrapping")
	}
	if IsNotFound(ErrAlreadyProcessed) {
		t.Error("IsNotFound must not match other sentinels")
	}
}

func TestIsValidation(t *testing.T) {
	err := ValidationError{Field: "amount", Message: "must be positive"}
	if !IsValidation(fmt.Errorf("create proposal: %w", err)) {
		t.Error("IsValidation should see through wrapping")
	}
}

func TestIsAuthorization(t *testing.T) {
	err := NewAuthorizationError("create wallet", "user")
	if !IsAuthorization(fmt.Errorf("handler: %w", err)) {
		t.Error("IsAuthorization should see through wrapping")
	}
}

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"conflict struct", NewConflictError("Proposal", "abc", "lost CAS", nil), true},
		{"already processed sentinel", fmt.Errorf("start: %w", ErrAlreadyProcessed), true},
		{"immutable sentinel", ErrTransactionImmutable, true},
		{"unrelated", ErrEntityNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConflict(tt.err); got != tt.want {
				t.Errorf("IsConflict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsStorage(t *testing.T) {
	err := NewStorageError("append transaction", errors.New("connection reset"))
	if !IsStorage(fmt.Errorf("commit: %w", err)) {
		t.Error("IsStorage should see through wrapping")
	}
}
