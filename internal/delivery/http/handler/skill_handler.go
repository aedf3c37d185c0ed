package handler

import (
	"errors"

	"skill-eval/internal/delivery/http/dto"
	"skill-eval/internal/delivery/http/middleware"
	"skill-eval/internal/pkg/response"
	"skill-eval/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
	r.Get("/:id/history", h.History)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	categoryID, err := parseQueryUUID(c, "category_id")
	if err != nil {
		return err
	}
	limit, offset, err := parsePage(c)
	if err != nil {
		return err
	}

	page, err := h.uc.ListSkills(c.Context(), userID, usecase.ListSkillsParams{
		CategoryID: categoryID,
		Query:      c.Query("q"),
		Sort:       c.Query("sort"),
		Order:      c.Query("order"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.OK(c, dto.FromSkillPage(page))
}

func (h *SkillHandler) Get(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	s, err := h.uc.GetSkill(c.Context(), userID, id)
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.OK(c, dto.FromSkill(s))
}

func (h *SkillHandler) Create(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateSkillRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	s, err := h.uc.CreateSkill(c.Context(), userID, usecase.CreateSkillInput{
		CategoryID:        req.CategoryID,
		Name:              req.Name,
		Description:       req.Description,
		Proficiency:       *req.Proficiency,
		TargetProficiency: req.TargetProficiency,
	})
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Created(c, dto.FromSkill(s))
}

func (h *SkillHandler) Update(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateSkillRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	s, err := h.uc.UpdateSkill(c.Context(), userID, id, usecase.UpdateSkillInput{
		CategoryID:        req.CategoryID,
		Name:              req.Name,
		Description:       req.Description,
		Proficiency:       req.Proficiency,
		TargetProficiency: req.TargetProficiency,
		ClearTarget:       req.ClearTarget,
		Note:              req.Note,
	})
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.OK(c, dto.FromSkill(s))
}

func (h *SkillHandler) Delete(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteSkill(c.Context(), userID, id); err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.OK(c, fiber.Map{"id": id, "deleted": true})
}

func (h *SkillHandler) History(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	limit, offset, err := parsePage(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListHistory(c.Context(), userID, id, limit, offset)
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.OK(c, dto.FromHistory(items))
}

func mapSkillUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid skill request", nil, err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrCategoryNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Category not found", nil, err)
	case errors.Is(err, usecase.ErrSkillAlreadyExists):
		return middleware.NewAppError(fiber.StatusConflict, "Skill with this name already exists", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternal, nil, err)
	}
}
