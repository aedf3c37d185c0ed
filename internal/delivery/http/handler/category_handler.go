package handler

import (
	"errors"

	"skill-eval/internal/delivery/http/dto"
	"skill-eval/internal/delivery/http/middleware"
	"skill-eval/internal/domain/user"
	"skill-eval/internal/pkg/response"
	"skill-eval/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CategoryHandler struct {
	uc usecase.CategoryUsecase
}

func NewCategoryHandler(uc usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// RegisterRoutes mounts the catalog. Categories are shared, so changing or
// removing one is reserved for admins.
func (h *CategoryHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	admin := middleware.RequireRole(string(user.RoleAdmin))

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Put("/:id", admin, h.Update)
	r.Delete("/:id", admin, h.Delete)
}

func (h *CategoryHandler) List(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListCategories(c.Context(), userID)
	if err != nil {
		return mapCategoryUsecaseError(err)
	}
	return response.OK(c, dto.FromCategories(items))
}

func (h *CategoryHandler) Get(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	cat, err := h.uc.GetCategory(c.Context(), userID, id)
	if err != nil {
		return mapCategoryUsecaseError(err)
	}
	return response.OK(c, dto.FromCategory(cat))
}

func (h *CategoryHandler) Create(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateCategoryRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	cat, err := h.uc.CreateCategory(c.Context(), userID, usecase.CreateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return mapCategoryUsecaseError(err)
	}
	return response.Created(c, dto.FromCategory(cat))
}

func (h *CategoryHandler) Update(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateCategoryRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	cat, err := h.uc.UpdateCategory(c.Context(), userID, id, usecase.UpdateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return mapCategoryUsecaseError(err)
	}
	return response.OK(c, dto.FromCategory(cat))
}

func (h *CategoryHandler) Delete(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteCategory(c.Context(), id); err != nil {
		return mapCategoryUsecaseError(err)
	}
	return response.OK(c, fiber.Map{"id": id, "deleted": true})
}

func mapCategoryUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid category data", nil, err)
	case errors.Is(err, usecase.ErrCategoryNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Category not found", nil, err)
	case errors.Is(err, usecase.ErrCategoryExists):
		return middleware.NewAppError(fiber.StatusConflict, "Category with this name or slug already exists", nil, err)
	case errors.Is(err, usecase.ErrCategoryInUse):
		return middleware.NewAppError(fiber.StatusConflict, "Category still has skills", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternal, nil, err)
	}
}
