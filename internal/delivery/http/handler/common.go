package handler

import (
	"strconv"
	"strings"

	"skill-eval/internal/delivery/http/middleware"
	"skill-eval/internal/pkg/validate"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// bindBody decodes and validates the request body. Field failures become a
// VALIDATION_ERROR with per-field details.
func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		if fields, ok := validate.Fields(err); ok {
			return middleware.NewValidationError(fields)
		}
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return nil
}

func currentUserID(c fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return id, nil
}

func parseIDParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewValidationError(map[string]string{name: "must be a valid UUID"})
	}
	return id, nil
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, middleware.NewValidationError(map[string]string{key: "must be an integer"})
	}
	return v, nil
}

func parseQueryUUID(c fiber.Ctx, key string) (*uuid.UUID, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, middleware.NewValidationError(map[string]string{key: "must be a valid UUID"})
	}
	return &id, nil
}

// parsePage reads limit and offset; range checks happen in the usecase.
func parsePage(c fiber.Ctx) (int, int, error) {
	limit, err := parseQueryInt(c, "limit", 0)
	if err != nil {
		return 0, 0, err
	}
	offset, err := parseQueryInt(c, "offset", 0)
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}
