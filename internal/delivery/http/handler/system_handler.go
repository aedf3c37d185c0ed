package handler

import (
	"skill-eval/internal/delivery/http/middleware"
	"skill-eval/internal/pkg/response"
	"skill-eval/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SystemHandler struct {
	uc usecase.SystemUsecase
}

func NewSystemHandler(uc usecase.SystemUsecase) *SystemHandler {
	return &SystemHandler{uc: uc}
}

// Health reports dependency status. An unreachable database answers 503 with
// the report as error details.
func (h *SystemHandler) Health(c fiber.Ctx) error {
	if h == nil || h.uc == nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Service unavailable", nil, nil)
	}

	report := h.uc.Health(c.Context())
	if !report.Healthy() {
		return response.Error(c, fiber.StatusServiceUnavailable, response.CodeUnavailable, "database unavailable", report)
	}
	return response.OK(c, report)
}

func (h *SystemHandler) Metrics(c fiber.Ctx) error {
	out, err := h.uc.Metrics(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternal, nil, err)
	}
	return response.OK(c, out)
}

func (h *SystemHandler) Status(c fiber.Ctx) error {
	return response.OK(c, h.uc.Status())
}
