package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxRequestIDKey = "request_id"
)

type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

// RequestIDMiddleware reuses an inbound X-Request-ID or mints one, and echoes
// it on the response.
func RequestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		rid := c.Get(HeaderRequestID)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Locals(CtxRequestIDKey, rid)
		c.Set(HeaderRequestID, rid)
		return c.Next()
	}
}

func RequestID(c fiber.Ctx) string {
	if rid, ok := c.Locals(CtxRequestIDKey).(string); ok {
		return rid
	}
	return c.Get(HeaderRequestID)
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		dur := time.Since(start)
		status := c.Response().StatusCode()

		uid := ""
		if id, ok := UserIDFromCtx(c); ok {
			uid = id.String()
		}

		if m != nil && m.logger != nil {
			m.logger.Printf(
				"HTTP access | rid=%s ip=%s method=%s path=%s status=%d latency=%s user_id=%s resp_bytes=%d ua=%q",
				RequestID(c), c.IP(), c.Method(), c.OriginalURL(), status, dur, uid, len(c.Response().Body()), c.Get("User-Agent"),
			)
		}

		return err
	}
}
