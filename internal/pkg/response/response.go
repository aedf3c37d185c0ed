package response

import (
	"time"

	"github.com/gofiber/fiber/v3"
)

type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorBody  `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeRateLimited     = "RATE_LIMITED"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
	CodeInternal        = "INTERNAL_ERROR"
	MessageInternal     = "internal server error"
	MessageUnauthorized = "unauthorized"
)

var now = time.Now

func Timestamp() string {
	return now().UTC().Format(time.RFC3339)
}

func Success(c fiber.Ctx, status int, data interface{}) error {
	st := normalizeStatus(status)
	return c.Status(st).JSON(Envelope{Success: true, Data: data, Timestamp: Timestamp()})
}

func OK(c fiber.Ctx, data interface{}) error {
	return Success(c, fiber.StatusOK, data)
}

func Created(c fiber.Ctx, data interface{}) error {
	return Success(c, fiber.StatusCreated, data)
}

// Error writes a failure envelope. Empty code or message fall back to the
// defaults for status.
func Error(c fiber.Ctx, status int, code, message string, details interface{}) error {
	st := normalizeStatus(status)
	if code == "" {
		code = CodeForStatus(st)
	}
	if message == "" {
		message = defaultMessageForStatus(st)
	}
	return c.Status(st).JSON(Envelope{
		Success:   false,
		Error:     &ErrorBody{Code: code, Message: message, Details: details},
		Timestamp: Timestamp(),
	})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func CodeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return CodeBadRequest
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusForbidden:
		return CodeForbidden
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusConflict:
		return CodeConflict
	case fiber.StatusUnprocessableEntity:
		return CodeValidation
	case fiber.StatusTooManyRequests:
		return CodeRateLimited
	case fiber.StatusServiceUnavailable:
		return CodeUnavailable
	default:
		if status >= 500 {
			return CodeInternal
		}
		return CodeBadRequest
	}
}

func defaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "bad request"
	case fiber.StatusUnauthorized:
		return MessageUnauthorized
	case fiber.StatusForbidden:
		return "forbidden"
	case fiber.StatusNotFound:
		return "not found"
	case fiber.StatusConflict:
		return "conflict"
	case fiber.StatusUnprocessableEntity:
		return "validation failed"
	case fiber.StatusTooManyRequests:
		return "too many requests"
	default:
		if status >= 500 {
			return MessageInternal
		}
		return "error"
	}
}
