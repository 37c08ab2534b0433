// Package errors defines domain-specific error types.
// Using typed errors (instead of strings) allows clients to handle specific cases.
//
// The kinds mirror what the API surface needs to distinguish: validation,
// not-found, authorization, conflict and storage failures. Adapters map
// each kind to the wire envelope {status_code, error, message, details}.
//
// Pattern: Sentinel Errors + Custom Error Types
package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors for domain validation
var (
	// Entity errors
	ErrEntityNotFound      = errors.New("entity not found")
	ErrEntityAlreadyExists = errors.New("entity already exists")

	// Wallet errors
	ErrInvalidWalletType    = errors.New("invalid wallet type")
	ErrWalletDeleted        = errors.New("wallet is deleted")
	ErrWalletNotEmpty       = errors.New("wallet has a non-zero balance")
	ErrMainCurrencyRequired = errors.New("app income wallet requires a main currency")

	// Ledger errors
	ErrTransactionImmutable = errors.New("ledger transactions are immutable")
	ErrZeroAmount           = errors.New("transaction amount must not be zero")

	// Hold errors
	ErrNegativeHoldAmount = errors.New("hold amount must not be negative")
	ErrInvalidHoldStatus  = errors.New("invalid hold status")

	// Proposal errors
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrAlreadyProcessed    = errors.New("proposal already processed")
	ErrProposalNotDraft    = errors.New("proposal is not in draft status")
	ErrEmptyParticipants   = errors.New("proposal participants is empty")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnbalancedProposal  = errors.New("participant amounts do not sum to zero")
	ErrAmountMismatch      = errors.New("declared amount does not match recipient total")
	ErrNonPositiveAmount   = errors.New("proposal amount must be positive")
	ErrParticipantRejected = errors.New("participant rejected by policy")
)

// Wire error identifiers (kebab-case, stable API contract).
const (
	CodeInvalidStatus = "invalid-status"
	CodeValidation    = "validation-error"
	CodeAuthorization = "authorization-error"
	CodeItemNotFound  = "item-not-found"
	CodeNotFound      = "not-found"
	CodeNotEmpty      = "not-empty"
	CodeUnexpected    = "unexpected"
)

// DomainError wraps an error with a wire code and human message while
// maintaining the error chain.
type DomainError struct {
	Code    string // Wire identifier (e.g. "invalid-status")
	Message string // Human-readable message
	Err     error  // Underlying error (for error chains)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// ValidationError represents validation failures with field-level details.
type ValidationError struct {
	Field   string // Field name that failed validation
	Message string // What went wrong
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// AuthorizationError represents an operation forbidden for the issuer kind.
type AuthorizationError struct {
	Operation string // Operation that was attempted
	Issuer    string // Issuer kind that attempted it
}

// Error implements the error interface.
func (e AuthorizationError) Error() string {
	if e.Issuer == "" {
		return fmt.Sprintf("not authorized to %s", e.Operation)
	}
	return fmt.Sprintf("issuer %s is not authorized to %s", e.Issuer, e.Operation)
}

// NewAuthorizationError creates a new authorization error.
func NewAuthorizationError(operation, issuer string) *AuthorizationError {
	return &AuthorizationError{Operation: operation, Issuer: issuer}
}

// ConflictError represents lost races and immutability violations:
// double StartProposal, a CAS that affected zero rows, or an update
// attempt on a ledger row.
type ConflictError struct {
	EntityType string // e.g. "Proposal", "Transaction"
	EntityID   string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s [%s]: %s", e.EntityType, e.EntityID, e.Message)
}

// Unwrap implements error unwrapping.
func (e *ConflictError) Unwrap() error {
	return e.Err
}

// NewConflictError creates a new conflict error.
func NewConflictError(entityType, entityID, message string, err error) *ConflictError {
	return &ConflictError{EntityType: entityType, EntityID: entityID, Message: message, Err: err}
}

// StorageError represents a transient backend failure. The outer
// transaction is rolled back and the API answers 500.
type StorageError struct {
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Operation, e.Err)
}

// Unwrap implements error unwrapping.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new storage error.
func NewStorageError(operation string, err error) *StorageError {
	return &StorageError{Operation: operation, Err: err}
}

// Helper functions for common error checking

// IsNotFound checks if an error is an "entity not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	var valErr ValidationError
	return errors.As(err, &valErr)
}

// IsAuthorization checks if an error is an authorization error.
func IsAuthorization(err error) bool {
	var authErr *AuthorizationError
	var authVal AuthorizationError
	return errors.As(err, &authErr) || errors.As(err, &authVal)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce) || errors.Is(err, ErrAlreadyProcessed) || errors.Is(err, ErrTransactionImmutable)
}

// IsStorage checks if an error is a storage error.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
