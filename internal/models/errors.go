package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidSort         = "INVALID_SORT"
	CodeInvalidDirection    = "INVALID_DIRECTION"
	CodeInvalidPagination   = "INVALID_PAGINATION"
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeStorageWriteFailure = "STORAGE_WRITE_FAILURE"
	CodeStorageCorrupt      = "STORAGE_CORRUPT"
	CodeStorageUnavailable  = "STORAGE_UNAVAILABLE"
	CodeInternal            = "INTERNAL_ERROR"
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

// NewNotFoundError reports a missing resource by id.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewValidationError reports a malformed request (bad path id, unparsable body).
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewInvalidInputError reports a create payload missing required fields.
func NewInvalidInputError(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
	}
}

// NewInvalidSortError reports an unrecognized sort field.
func NewInvalidSortError(sort string) *AppError {
	return &AppError{
		Code:    CodeInvalidSort,
		Message: fmt.Sprintf("Invalid sort parameter %q", sort),
	}
}

// NewInvalidDirectionError reports a direction other than asc or desc.
func NewInvalidDirectionError(direction string) *AppError {
	return &AppError{
		Code:    CodeInvalidDirection,
		Message: fmt.Sprintf("Invalid direction parameter %q", direction),
	}
}

// NewInvalidPaginationError reports a page or limit that is not a positive integer.
func NewInvalidPaginationError(param string) *AppError {
	return &AppError{
		Code:    CodeInvalidPagination,
		Message: fmt.Sprintf("Invalid %s parameter: must be a positive integer", param),
	}
}

// NewStorageWriteError wraps a failed save.
func NewStorageWriteError(err error) *AppError {
	return &AppError{
		Code:    CodeStorageWriteFailure,
		Message: "Failed to persist posts",
		Err:     err,
	}
}

// NewStorageCorruptError wraps an unreadable backing document.
func NewStorageCorruptError(err error) *AppError {
	return &AppError{
		Code:    CodeStorageCorrupt,
		Message: "Stored posts could not be read",
		Err:     err,
	}
}

// NewStorageUnavailableError wraps a backend that could not be reached.
func NewStorageUnavailableError(err error) *AppError {
	return &AppError{
		Code:    CodeStorageUnavailable,
		Message: "Post storage is unavailable",
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

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeInvalidInput, CodeInvalidSort, CodeInvalidDirection, CodeInvalidPagination, CodeValidation:
		return fiber.StatusBadRequest
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeStorageUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
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
