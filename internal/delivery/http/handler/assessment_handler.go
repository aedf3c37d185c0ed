package handler

import (
	"errors"

	"skill-eval/internal/delivery/http/dto"
	"skill-eval/internal/delivery/http/middleware"
	"skill-eval/internal/pkg/response"
	"skill-eval/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AssessmentHandler struct {
	uc usecase.AssessmentUsecase
}

func NewAssessmentHandler(uc usecase.AssessmentUsecase) *AssessmentHandler {
	return &AssessmentHandler{uc: uc}
}

func (h *AssessmentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

func (h *AssessmentHandler) List(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	skillID, err := parseQueryUUID(c, "skill_id")
	if err != nil {
		return err
	}
	limit, offset, err := parsePage(c)
	if err != nil {
		return err
	}

	page, err := h.uc.ListAssessments(c.Context(), userID, usecase.ListAssessmentsParams{
		SkillID: skillID,
		Type:    c.Query("type"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return mapAssessmentUsecaseError(err)
	}
	return response.OK(c, dto.FromAssessmentPage(page))
}

func (h *AssessmentHandler) Get(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	a, err := h.uc.GetAssessment(c.Context(), userID, id)
	if err != nil {
		return mapAssessmentUsecaseError(err)
	}
	return response.OK(c, dto.FromAssessment(a))
}

func (h *AssessmentHandler) Create(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateAssessmentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.uc.CreateAssessment(c.Context(), userID, usecase.CreateAssessmentInput{
		SkillID:    req.SkillID,
		Type:       req.Type,
		Score:      *req.Score,
		Notes:      req.Notes,
		AssessedAt: req.AssessedAt,
	})
	if err != nil {
		return mapAssessmentUsecaseError(err)
	}
	return response.Created(c, dto.FromAssessmentResult(res))
}

func (h *AssessmentHandler) Update(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateAssessmentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.uc.UpdateAssessment(c.Context(), userID, id, usecase.UpdateAssessmentInput{
		Type:       req.Type,
		Score:      req.Score,
		Notes:      req.Notes,
		AssessedAt: req.AssessedAt,
	})
	if err != nil {
		return mapAssessmentUsecaseError(err)
	}
	return response.OK(c, dto.FromAssessmentResult(res))
}

func (h *AssessmentHandler) Delete(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteAssessment(c.Context(), userID, id); err != nil {
		return mapAssessmentUsecaseError(err)
	}
	return response.OK(c, fiber.Map{"id": id, "deleted": true})
}

func mapAssessmentUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid assessment request", nil, err)
	case errors.Is(err, usecase.ErrAssessmentNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Assessment not found", nil, err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternal, nil, err)
	}
}
