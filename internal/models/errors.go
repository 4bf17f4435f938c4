package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned by the access layer.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeAuth            = "AUTH_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeRemote          = "REMOTE_UNAVAILABLE"
	CodePartialFailure  = "PARTIAL_FAILURE"
	CodeAccountCreation = "ACCOUNT_CREATION_ERROR"
	CodePostCreation    = "POST_CREATION_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewAuthError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeAuth,
		Message: message,
		Err:     err,
	}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewRemoteError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeRemote,
		Message: message,
		Err:     err,
	}
}

// NewPartialFailureError marks an orchestration that failed after a side
// effect it could not compensate (e.g. a blob left orphaned).
func NewPartialFailureError(message string, err error) *AppError {
	return &AppError{
		Code:    CodePartialFailure,
		Message: message,
		Err:     err,
	}
}

func NewAccountCreationError(err error) *AppError {
	return &AppError{
		Code:    CodeAccountCreation,
		Message: "Account could not be created",
		Err:     err,
	}
}

func NewPostCreationError(message string, err error) *AppError {
	return &AppError{
		Code:    CodePostCreation,
		Message: message,
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
