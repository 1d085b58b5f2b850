package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Generation specific errors
	ErrInvalidImage    ErrorCode = "INVALID_IMAGE"
	ErrLLMServiceError ErrorCode = "LLM_SERVICE_ERROR"
)

// Client-facing messages. Generation failures never leak their cause.
const (
	MsgNoValidInput     = "No valid input provided"
	MsgInvalidImage     = "Invalid image data"
	MsgInvalidBody      = "Invalid request body"
	MsgGenerationFailed = "Failed to generate response"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInvalidImageError(err error) *DomainError {
	return NewError(ErrInvalidImage, MsgInvalidImage, err)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, MsgGenerationFailed, err)
}
