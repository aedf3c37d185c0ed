package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"skill-eval/internal/domain/skill"
	"skill-eval/internal/repository"

	"github.com/google/uuid"
)

type CreateCategoryInput struct {
	Name        string
	Slug        string
	Description string
	Color       string
}

type UpdateCategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
	Color       *string
}

type CategoryUsecase interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]skill.Category, error)
	GetCategory(ctx context.Context, userID uuid.UUID, id uuid.UUID) (skill.Category, error)
	CreateCategory(ctx context.Context, userID uuid.UUID, in CreateCategoryInput) (skill.Category, error)
	UpdateCategory(ctx context.Context, userID uuid.UUID, id uuid.UUID, in UpdateCategoryInput) (skill.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type Category struct {
	repo repository.CategoryRepository
	changeNotifier
}

func NewCategoryUsecase(repo repository.CategoryRepository, cache Cache, logger *log.Logger) *Category {
	return &Category{repo: repo, changeNotifier: changeNotifier{cache: cache, logger: logger}}
}

func (u *Category) ListCategories(ctx context.Context, userID uuid.UUID) ([]skill.Category, error) {
	items, err := u.repo.ListCategories(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	return items, nil
}

func (u *Category) GetCategory(ctx context.Context, userID uuid.UUID, id uuid.UUID) (skill.Category, error) {
	c, err := u.repo.GetCategoryByID(ctx, userID, id)
	if err != nil {
		return skill.Category{}, mapCategoryError(err)
	}
	return c, nil
}

func (u *Category) CreateCategory(ctx context.Context, userID uuid.UUID, in CreateCategoryInput) (skill.Category, error) {
	c := skill.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        strings.TrimSpace(in.Slug),
		Description: strings.TrimSpace(in.Description),
		Color:       strings.TrimSpace(in.Color),
	}
	if err := normalizeCategory(&c); err != nil {
		return skill.Category{}, err
	}

	created, err := u.repo.CreateCategory(ctx, c)
	if err != nil {
		return skill.Category{}, mapCategoryError(err)
	}
	return created, nil
}

func (u *Category) UpdateCategory(ctx context.Context, userID uuid.UUID, id uuid.UUID, in UpdateCategoryInput) (skill.Category, error) {
	c, err := u.repo.GetCategoryByID(ctx, userID, id)
	if err != nil {
		return skill.Category{}, mapCategoryError(err)
	}

	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		c.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.Color != nil {
		c.Color = strings.TrimSpace(*in.Color)
	}
	if err := normalizeCategory(&c); err != nil {
		return skill.Category{}, err
	}

	updated, err := u.repo.UpdateCategory(ctx, c)
	if err != nil {
		return skill.Category{}, mapCategoryError(err)
	}
	updated.SkillCount = c.SkillCount

	u.invalidateAll(ctx)
	return updated, nil
}

func (u *Category) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := u.repo.DeleteCategory(ctx, id); err != nil {
		return mapCategoryError(err)
	}
	u.invalidateAll(ctx)
	return nil
}

// normalizeCategory derives a missing slug from the name and checks the
// bounds the schema enforces.
func normalizeCategory(c *skill.Category) error {
	n := utf8.RuneCountInString(c.Name)
	if n == 0 || n > skill.MaxCategoryNameLength {
		return ErrInvalidInput
	}
	if c.Slug == "" {
		c.Slug = skill.Slugify(c.Name)
	}
	if !skill.ValidSlug(c.Slug) {
		return ErrInvalidInput
	}
	if c.Color != "" && !skill.ValidHexColor(c.Color) {
		return ErrInvalidInput
	}
	c.Color = strings.ToUpper(c.Color)
	return nil
}

func mapCategoryError(err error) error {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, repository.ErrDuplicateCategory):
		return ErrCategoryExists
	case errors.Is(err, repository.ErrCategoryInUse):
		return ErrCategoryInUse
	default:
		return internal(err)
	}
}
