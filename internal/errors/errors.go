package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a gauge error code.
type ErrorCode string

const (
	ErrInvalidRequest          ErrorCode = "INVALID_REQUEST"           // 400
	ErrNotFound                ErrorCode = "NOT_FOUND"                 // 404
	ErrInvalidCompoundNotation ErrorCode = "INVALID_COMPOUND_NOTATION" // 422
	ErrInvalidFraction         ErrorCode = "INVALID_FRACTION"          // 422
	ErrInvalidExpression       ErrorCode = "INVALID_EXPRESSION"        // 422
	ErrDivisionByZero          ErrorCode = "DIVISION_BY_ZERO"          // 422
	ErrInternal                ErrorCode = "INTERNAL"                  // 500
)

// CalcError represents a structured error with code, status, and details.
type CalcError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *CalcError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *CalcError {
	return &CalcError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for an unknown page or resource.
func NewNotFound(what string) *CalcError {
	return &CalcError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found", what),
		Details: map[string]any{"path": what},
	}
}

// NewInvalidCompoundNotation creates a 422 error for a malformed feet-inches
// or pounds-ounces token.
func NewInvalidCompoundNotation(token, reason string) *CalcError {
	return &CalcError{
		Code:    ErrInvalidCompoundNotation,
		Status:  422,
		Message: fmt.Sprintf("invalid compound notation %q: %s", token, reason),
		Details: map[string]any{"token": token},
	}
}

// NewInvalidFraction creates a 422 error for a standalone fraction that cannot be evaluated.
func NewInvalidFraction(token string) *CalcError {
	return &CalcError{
		Code:    ErrInvalidFraction,
		Status:  422,
		Message: fmt.Sprintf("invalid fraction %q: denominator is zero", token),
		Details: map[string]any{"token": token},
	}
}

// NewInvalidExpression creates a 422 error when the arithmetic expression cannot be evaluated.
func NewInvalidExpression(expression, reason string) *CalcError {
	return &CalcError{
		Code:    ErrInvalidExpression,
		Status:  422,
		Message: fmt.Sprintf("invalid expression: %s", reason),
		Details: map[string]any{"expression": expression},
	}
}

// NewDivisionByZero creates a 422 error for an arithmetic division by zero.
func NewDivisionByZero(expression string) *CalcError {
	return &CalcError{
		Code:    ErrDivisionByZero,
		Status:  422,
		Message: "division by zero",
		Details: map[string]any{"expression": expression},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *CalcError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &CalcError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a CalcError with the given code.
func Is(err error, code ErrorCode) bool {
	var cErr *CalcError
	if stderrors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// As returns the CalcError carried by err, wrapping anything else as INTERNAL.
func As(err error) *CalcError {
	var cErr *CalcError
	if stderrors.As(err, &cErr) {
		return cErr
	}
	return NewInternal(err)
}
