package models

import (
	"errors"
	"fmt"

	"socialapp/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAlreadyLiked       = "ALREADY_LIKED"
	CodeNotLiked           = "NOT_LIKED"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrorResponse is the `{"msg": ...}` body for non-field client errors.
type ErrorResponse struct {
	Msg  string `json:"msg"`
	Code string `json:"code,omitempty"`
}

// FieldErrorResponse is the `{"errors": [...]}` body for validation failures.
type FieldErrorResponse struct {
	Errors []validation.FieldError `json:"errors"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Status  int
	Fields  []validation.FieldError
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

// NewValidationError wraps a list of failed field rules.
func NewValidationError(fields validation.Errors) *AppError {
	msg := "Validation failed"
	if len(fields) > 0 {
		msg = fields[0].Msg
	}
	return &AppError{
		Code:    CodeValidation,
		Message: msg,
		Status:  fiber.StatusBadRequest,
		Fields:  fields,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  fiber.StatusUnauthorized,
	}
}

// NewForbiddenError is an ownership failure. It is reported as 401 to match
// the wire contract existing clients rely on.
func NewForbiddenError() *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: "User not authorized",
		Status:  fiber.StatusUnauthorized,
	}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: resource + " not found",
		Status:  fiber.StatusNotFound,
	}
}

func NewCommentNotFoundError() *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: "Comment does not exist",
		Status:  fiber.StatusNotFound,
	}
}

// NewNoProfileError is the profile lookup miss, which keeps its historical 400.
func NewNoProfileError() *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: "no profile found",
		Status:  fiber.StatusBadRequest,
	}
}

func NewDuplicateEmailError() *AppError {
	return &AppError{
		Code:    CodeDuplicateEmail,
		Message: "user already exists",
		Status:  fiber.StatusBadRequest,
		Fields:  []validation.FieldError{{Msg: "user already exists"}},
	}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    CodeInvalidCredentials,
		Message: "invalid credentials",
		Status:  fiber.StatusBadRequest,
		Fields:  []validation.FieldError{{Msg: "invalid credentials"}},
	}
}

func NewAlreadyLikedError() *AppError {
	return &AppError{
		Code:    CodeAlreadyLiked,
		Message: "post already liked",
		Status:  fiber.StatusBadRequest,
	}
}

func NewNotLikedError() *AppError {
	return &AppError{
		Code:    CodeNotLiked,
		Message: "Post has not yet been liked",
		Status:  fiber.StatusBadRequest,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Server Error",
		Status:  fiber.StatusInternalServerError,
		Err:     err,
	}
}

// AsAppError returns err as an *AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusOf returns the HTTP status an error renders with.
func StatusOf(err error) int {
	status := AsAppError(err).Status
	if status == 0 {
		return fiber.StatusInternalServerError
	}
	return status
}

// RespondWithError renders err with the given status. Server errors are
// sent as plain text so no detail leaks to the client.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	if status >= fiber.StatusInternalServerError {
		return c.Status(status).SendString("Server Error")
	}

	appErr := AsAppError(err)
	if len(appErr.Fields) > 0 {
		return c.Status(status).JSON(FieldErrorResponse{Errors: appErr.Fields})
	}
	return c.Status(status).JSON(ErrorResponse{
		Msg:  appErr.Message,
		Code: appErr.Code,
	})
}
