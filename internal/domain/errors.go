package domain

import "fmt"

// ValidationError rejects malformed input before any state change.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NotFoundError covers unknown item, order, user and payment ids.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError covers state that refuses the operation: insufficient
// stock, payment mismatch, already-completed orders, invalid tokens.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// AuthorizationError means the caller's role may not perform the operation.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func NewAuthorization(message string) *AuthorizationError {
	return &AuthorizationError{Message: message}
}

// Shared sentinel conflicts. errors.Is matches on the instance, so
// callers compare against these rather than message strings.
var (
	ErrAlreadyCompleted = NewConflict("order already picked up")
	ErrOrderNotReady    = NewConflict("order not ready for pickup")
	ErrInvalidToken     = NewConflict("invalid pickup token")
	ErrPaymentRequired  = NewConflict("payment required")
	ErrPaymentNotPaid   = NewConflict("payment not confirmed")
	ErrPaymentMismatch  = NewConflict("payment amount mismatch")
	ErrEmptyCart        = NewValidation("cart is empty")

	// ErrInvalidCredentials maps to 401 rather than 403.
	ErrInvalidCredentials = NewAuthorization("invalid credentials")
)

// NewInsufficientStock names the offending item per the error contract.
func NewInsufficientStock(itemName string) *ConflictError {
	return NewConflict(fmt.Sprintf("insufficient stock for %s", itemName))
}
