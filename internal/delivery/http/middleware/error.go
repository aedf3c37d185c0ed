package middleware

import (
	"errors"
	"log"
	"runtime/debug"

	"skill-eval/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	Status  int
	Code    string
	Message string
	Details interface{}
	Cause   error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewAppError derives the code from status.
func NewAppError(status int, message string, details interface{}, cause error) *AppError {
	return &AppError{Status: status, Code: response.CodeForStatus(status), Message: message, Details: details, Cause: cause}
}

func NewValidationError(details interface{}) *AppError {
	return &AppError{
		Status:  fiber.StatusBadRequest,
		Code:    response.CodeValidation,
		Message: "validation failed",
		Details: details,
	}
}

func NewRateLimitError() *AppError {
	return NewAppError(fiber.StatusTooManyRequests, "too many requests", nil, nil)
}

type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("HTTP panic | rid=%s path=%s panic=%v stack=%q", RequestID(c), c.Path(), r, debug.Stack())
				err = response.Error(c, fiber.StatusInternalServerError, response.CodeInternal, response.MessageInternal, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		appErr := normalizeError(err)
		if appErr.Status >= 500 {
			m.logger.Printf("HTTP error | rid=%s method=%s path=%s status=%d err=%v", RequestID(c), c.Method(), c.Path(), appErr.Status, err)
		}
		return response.Error(c, appErr.Status, appErr.Code, appErr.Message, appErr.Details)
	}
}

// ErrorHandler is installed as fiber's ErrorHandler for errors raised
// outside the middleware chain, such as unmatched routes.
func ErrorHandler(c fiber.Ctx, err error) error {
	appErr := normalizeError(err)
	return response.Error(c, appErr.Status, appErr.Code, appErr.Message, appErr.Details)
}

func normalizeError(err error) *AppError {
	internal := &AppError{Status: fiber.StatusInternalServerError, Code: response.CodeInternal, Message: response.MessageInternal}
	if err == nil {
		return internal
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Status <= 0 || appErr.Status >= 500 {
			if appErr.Status == fiber.StatusServiceUnavailable {
				return &AppError{Status: appErr.Status, Code: response.CodeUnavailable, Message: appErr.Message}
			}
			return internal
		}
		out := *appErr
		if out.Code == "" {
			out.Code = response.CodeForStatus(out.Status)
		}
		return &out
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return internal
		}
		return &AppError{Status: status, Code: response.CodeForStatus(status), Message: fiberErr.Message}
	}

	return internal
}
