package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Code classifies a failure so callers can tell client-fixable conditions
// from transient service conditions.
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeNotFound     Code = "NOT_FOUND"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeInvalidState Code = "INVALID_STATE"
	CodeGeneration   Code = "GENERATION_FAILED"
	CodeScoring      Code = "SCORING_FAILED"
	CodePersistence  Code = "PERSISTENCE_FAILED"
	CodeConflict     Code = "CONFLICT"
)

type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeUnauthorized:
		return fiber.StatusForbidden
	case CodeInvalidState, CodeConflict:
		return fiber.StatusConflict
	case CodeGeneration, CodeScoring:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func Validation(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func InvalidState(message string) *AppError {
	return &AppError{Code: CodeInvalidState, Message: message}
}

func Generation(message string, err error) *AppError {
	return &AppError{Code: CodeGeneration, Message: message, Err: err}
}

func Scoring(message string, err error) *AppError {
	return &AppError{Code: CodeScoring, Message: message, Err: err}
}

func Persistence(message string, err error) *AppError {
	return &AppError{Code: CodePersistence, Message: message, Err: err}
}

func Conflict(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// CodeOf extracts the classification from any error chain.
// Unclassified errors report as persistence failures.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodePersistence
}

// IsCode reports whether err carries the given classification.
func IsCode(err error, code Code) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
