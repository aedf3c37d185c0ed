package handler

import (
	"errors"

	"skill-eval/internal/delivery/http/middleware"
	"skill-eval/internal/pkg/response"
	"skill-eval/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AnalyticsHandler struct {
	uc usecase.AnalyticsUsecase
}

func NewAnalyticsHandler(uc usecase.AnalyticsUsecase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

func (h *AnalyticsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/overview", h.Overview)
	r.Get("/progress", h.Progress)
	r.Get("/skills/top", h.TopSkills)
}

func (h *AnalyticsHandler) Overview(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	out, err := h.uc.Overview(c.Context(), userID)
	if err != nil {
		return mapAnalyticsUsecaseError(err)
	}
	return response.OK(c, out)
}

func (h *AnalyticsHandler) Progress(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	days, err := parseQueryInt(c, "days", usecase.DefaultProgressDays)
	if err != nil {
		return err
	}

	out, err := h.uc.Progress(c.Context(), userID, days)
	if err != nil {
		return mapAnalyticsUsecaseError(err)
	}
	return response.OK(c, out)
}

func (h *AnalyticsHandler) TopSkills(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	limit, err := parseQueryInt(c, "limit", usecase.DefaultTopLimit)
	if err != nil {
		return err
	}

	out, err := h.uc.TopSkills(c.Context(), userID, limit)
	if err != nil {
		return mapAnalyticsUsecaseError(err)
	}
	return response.OK(c, out)
}

func mapAnalyticsUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid analytics query", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternal, nil, err)
	}
}
