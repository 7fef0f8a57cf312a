package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Validation Errors (VALIDATION_*)
	ErrorCodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
	ErrorCodeValidationAmountInvalid ErrorCode = "VALIDATION_AMOUNT_INVALID"
	ErrorCodeValidationMissingField  ErrorCode = "VALIDATION_MISSING_FIELD"
	ErrorCodeInsufficientBalance     ErrorCode = "VALIDATION_INSUFFICIENT_BALANCE"

	// Payout Errors (PAYOUT_*)
	ErrorCodePayoutNotFound     ErrorCode = "PAYOUT_NOT_FOUND"
	ErrorCodePayoutInvalidState ErrorCode = "PAYOUT_INVALID_STATE"

	// Authentication & Authorization Errors (AUTH_*)
	ErrorCodeAuthMissing      ErrorCode = "AUTH_MISSING"
	ErrorCodeAuthInvalid      ErrorCode = "AUTH_INVALID"
	ErrorCodeAuthRoleRequired ErrorCode = "AUTH_ROLE_REQUIRED"
	ErrorCodeAuthNotOwner     ErrorCode = "AUTH_NOT_OWNER"

	// Ledger Errors (LEDGER_*)
	ErrorCodeLedgerNotFound ErrorCode = "LEDGER_NOT_FOUND"

	// Settlement Gateway Errors (SETTLEMENT_*)
	ErrorCodeSettlementError   ErrorCode = "SETTLEMENT_ERROR"
	ErrorCodeSettlementTimeout ErrorCode = "SETTLEMENT_TIMEOUT"

	// Internal Errors (INTERNAL_*)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrorCodeDatabaseError ErrorCode = "INTERNAL_DATABASE_ERROR"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail returns a copy of the error with the detail added. The receiver
// is never mutated, so the shared sentinels stay immutable and two callers
// can hold details for the same code concurrently.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	clone := *e
	clone.Details = make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		clone.Details[k] = v
	}
	clone.Details[key] = value
	return &clone
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// ValidationError creates a validation error with a caller-facing message
func ValidationError(message string) *DomainError {
	return NewDomainError(ErrorCodeValidationFailed, message)
}

// InvalidStateError creates an invalid-state error for a rejected transition.
// The message follows the "can no longer be <action>ed" convention so the
// presentation layer can show it verbatim.
func InvalidStateError(action, currentStatus string) *DomainError {
	e := NewDomainError(ErrorCodePayoutInvalidState,
		fmt.Sprintf("this payout can no longer be %s", action))
	return e.WithDetail("current_status", currentStatus)
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeValidationFailed ||
		code == ErrorCodeValidationAmountInvalid ||
		code == ErrorCodeValidationMissingField ||
		code == ErrorCodeInsufficientBalance
}

// IsInvalidStateError checks if an error is an illegal-transition error
func IsInvalidStateError(err error) bool {
	return GetErrorCode(err) == ErrorCodePayoutInvalidState
}

// IsAuthorizationError checks if an error is authentication/authorization related
func IsAuthorizationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeAuthMissing ||
		code == ErrorCodeAuthInvalid ||
		code == ErrorCodeAuthRoleRequired ||
		code == ErrorCodeAuthNotOwner
}

// IsNotFoundError checks if an error represents a "not found" condition
func IsNotFoundError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodePayoutNotFound || code == ErrorCodeLedgerNotFound
}

// IsIntegrationError checks if an error came from the settlement gateway
func IsIntegrationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeSettlementError || code == ErrorCodeSettlementTimeout
}

// Structured error instances
var (
	ErrAuthMissing      = NewDomainError(ErrorCodeAuthMissing, "authentication required")
	ErrAuthInvalid      = NewDomainError(ErrorCodeAuthInvalid, "invalid authentication")
	ErrAuthRoleRequired = NewDomainError(ErrorCodeAuthRoleRequired, "access denied")
	ErrAuthNotOwner     = NewDomainError(ErrorCodeAuthNotOwner, "access denied")

	ErrPayoutNotFound = NewDomainError(ErrorCodePayoutNotFound, "payout not found")
	ErrLedgerNotFound = NewDomainError(ErrorCodeLedgerNotFound, "provider ledger not found")

	ErrAmountInvalid       = NewDomainError(ErrorCodeValidationAmountInvalid, "amount must be greater than zero")
	ErrInsufficientBalance = NewDomainError(ErrorCodeInsufficientBalance, "amount exceeds available balance")

	ErrSettlementError   = NewDomainError(ErrorCodeSettlementError, "settlement provider error")
	ErrSettlementTimeout = NewDomainError(ErrorCodeSettlementTimeout, "settlement provider timeout")

	ErrInternalError = NewDomainError(ErrorCodeInternalError, "internal server error")
	ErrDatabaseError = NewDomainError(ErrorCodeDatabaseError, "database error")
)
