package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
	// Details carries machine-readable context such as the offending field or
	// the placeholder keys that blocked a transition.
	Details map[string]interface{}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches domain errors by code and message so sentinel comparisons keep
// working on copies enriched with details.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// WithDetail returns a copy of e carrying an extra detail entry.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e == nil {
		return nil
	}
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{Code: e.Code, Message: e.Message, Err: e.Err, Details: details}
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrContractNotFound = NewError(ErrCodeNotFound, "contract not found")
	ErrTemplateNotFound = NewError(ErrCodeNotFound, "template not found")
	ErrProjectNotFound  = NewError(ErrCodeNotFound, "project not found")
	ErrCustomerNotFound = NewError(ErrCodeNotFound, "customer not found")
	ErrScopeNotFound    = NewError(ErrCodeNotFound, "scope not found")
	ErrUserNotFound     = NewError(ErrCodeNotFound, "user not found")

	ErrUnauthorized     = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidSignature = NewError(ErrCodeUnauthorized, "invalid webhook signature")
	ErrInvalidPayload   = NewError(ErrCodeInvalid, "invalid payload")

	ErrMissingParty           = NewError(ErrCodeInvalid, "contract needs a project and customer or a collaborator")
	ErrScopeProjectMismatch   = NewError(ErrCodeInvalid, "scope does not belong to the contract project")
	ErrUnresolvedPlaceholders = NewError(ErrCodeInvalid, "contract has unresolved placeholders")
	ErrInvalidStatus          = NewError(ErrCodeInvalid, "invalid contract status")

	ErrContractLocked       = NewError(ErrCodeConflict, "contract is locked")
	ErrContractSigned       = NewError(ErrCodeConflict, "contract is signed")
	ErrContractCanceled     = NewError(ErrCodeConflict, "contract is canceled")
	ErrInvalidTransition    = NewError(ErrCodeConflict, "status transition not allowed")
	ErrTemplateNameConflict = NewError(ErrCodeConflict, "template name already used in this scope")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// ErrorDetails extracts the details map of a domain error, if any.
func ErrorDetails(err error) map[string]interface{} {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Details
	}
	return nil
}
