package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"skill-eval/internal/domain/skill"
	"skill-eval/internal/repository"
	"skill-eval/internal/ws"

	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type CreateSkillInput struct {
	CategoryID        uuid.UUID
	Name              string
	Description       string
	Proficiency       int
	TargetProficiency *int
}

// UpdateSkillInput is a partial update; nil fields are left unchanged.
// ClearTarget removes the target proficiency.
type UpdateSkillInput struct {
	CategoryID        *uuid.UUID
	Name              *string
	Description       *string
	Proficiency       *int
	TargetProficiency *int
	ClearTarget       bool
	Note              string
}

type ListSkillsParams struct {
	CategoryID *uuid.UUID
	Query      string
	Sort       string
	Order      string
	Limit      int
	Offset     int
}

type SkillPage struct {
	Items  []skill.Skill
	Total  int
	Limit  int
	Offset int
}

type SkillUsecase interface {
	ListSkills(ctx context.Context, userID uuid.UUID, p ListSkillsParams) (SkillPage, error)
	GetSkill(ctx context.Context, userID uuid.UUID, id uuid.UUID) (skill.Skill, error)
	CreateSkill(ctx context.Context, userID uuid.UUID, in CreateSkillInput) (skill.Skill, error)
	UpdateSkill(ctx context.Context, userID uuid.UUID, id uuid.UUID, in UpdateSkillInput) (skill.Skill, error)
	DeleteSkill(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	ListHistory(ctx context.Context, userID uuid.UUID, skillID uuid.UUID, limit, offset int) ([]skill.History, error)
}

type Skill struct {
	repo       repository.SkillRepository
	categories repository.CategoryRepository
	changeNotifier
}

func NewSkillUsecase(repo repository.SkillRepository, categories repository.CategoryRepository, cache Cache, publisher EventPublisher, logger *log.Logger) *Skill {
	return &Skill{
		repo:           repo,
		categories:     categories,
		changeNotifier: changeNotifier{cache: cache, publisher: publisher, logger: logger},
	}
}

func (u *Skill) ListSkills(ctx context.Context, userID uuid.UUID, p ListSkillsParams) (SkillPage, error) {
	limit, offset, err := normalizePage(p.Limit, p.Offset)
	if err != nil {
		return SkillPage{}, err
	}

	sort := repository.SkillSortName
	if p.Sort != "" {
		switch s := repository.SkillSort(strings.ToLower(p.Sort)); s {
		case repository.SkillSortName, repository.SkillSortProficiency, repository.SkillSortUpdatedAt:
			sort = s
		default:
			return SkillPage{}, ErrInvalidInput
		}
	}

	desc := false
	switch strings.ToLower(p.Order) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return SkillPage{}, ErrInvalidInput
	}

	items, total, err := u.repo.ListSkills(ctx, repository.SkillFilter{
		UserID:     userID,
		CategoryID: p.CategoryID,
		Query:      strings.TrimSpace(p.Query),
		Sort:       sort,
		Desc:       desc,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return SkillPage{}, internal(err)
	}
	return SkillPage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (u *Skill) GetSkill(ctx context.Context, userID uuid.UUID, id uuid.UUID) (skill.Skill, error) {
	s, err := u.repo.GetSkillByID(ctx, userID, id)
	if err != nil {
		return skill.Skill{}, mapSkillError(err)
	}
	return s, nil
}

func (u *Skill) CreateSkill(ctx context.Context, userID uuid.UUID, in CreateSkillInput) (skill.Skill, error) {
	s := skill.Skill{
		UserID:            userID,
		CategoryID:        in.CategoryID,
		Name:              strings.TrimSpace(in.Name),
		Description:       strings.TrimSpace(in.Description),
		Proficiency:       in.Proficiency,
		TargetProficiency: in.TargetProficiency,
	}
	if err := validateSkill(s); err != nil {
		return skill.Skill{}, err
	}

	exists, err := u.categories.CategoryExists(ctx, s.CategoryID)
	if err != nil {
		return skill.Skill{}, internal(err)
	}
	if !exists {
		return skill.Skill{}, ErrCategoryNotFound
	}

	created, err := u.repo.CreateSkill(ctx, s)
	if err != nil {
		return skill.Skill{}, mapSkillError(err)
	}

	p := created.Proficiency
	u.skillChanged(ctx, userID, ws.NewEvent(ws.EventSkillUpdated, created.ID, &p))
	return created, nil
}

// UpdateSkill merges in against the row as locked by the repository, so
// fields left nil keep whatever a concurrent assessment wrote.
func (u *Skill) UpdateSkill(ctx context.Context, userID uuid.UUID, id uuid.UUID, in UpdateSkillInput) (skill.Skill, error) {
	updated, err := u.repo.UpdateSkill(ctx, userID, id, in.apply, strings.TrimSpace(in.Note))
	if err != nil {
		return skill.Skill{}, mapSkillError(err)
	}

	p := updated.Proficiency
	u.skillChanged(ctx, userID, ws.NewEvent(ws.EventSkillUpdated, updated.ID, &p))
	return updated, nil
}

func (in UpdateSkillInput) apply(s *skill.Skill) error {
	if in.CategoryID != nil {
		s.CategoryID = *in.CategoryID
	}
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		s.Description = strings.TrimSpace(*in.Description)
	}
	if in.Proficiency != nil {
		s.Proficiency = *in.Proficiency
	}
	if in.ClearTarget {
		s.TargetProficiency = nil
	} else if in.TargetProficiency != nil {
		t := *in.TargetProficiency
		s.TargetProficiency = &t
	}
	return validateSkill(*s)
}

func (u *Skill) DeleteSkill(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if err := u.repo.DeleteSkill(ctx, userID, id); err != nil {
		return mapSkillError(err)
	}
	u.skillChanged(ctx, userID, ws.NewEvent(ws.EventSkillDeleted, id, nil))
	return nil
}

func (u *Skill) ListHistory(ctx context.Context, userID uuid.UUID, skillID uuid.UUID, limit, offset int) ([]skill.History, error) {
	limit, offset, err := normalizePage(limit, offset)
	if err != nil {
		return nil, err
	}
	items, err := u.repo.ListHistory(ctx, userID, skillID, limit, offset)
	if err != nil {
		return nil, mapSkillError(err)
	}
	return items, nil
}

func validateSkill(s skill.Skill) error {
	n := utf8.RuneCountInString(s.Name)
	if n == 0 || n > skill.MaxNameLength {
		return ErrInvalidInput
	}
	if s.CategoryID == uuid.Nil {
		return ErrInvalidInput
	}
	if !skill.ValidProficiency(s.Proficiency) {
		return ErrInvalidInput
	}
	if s.TargetProficiency != nil && !skill.ValidProficiency(*s.TargetProficiency) {
		return ErrInvalidInput
	}
	return nil
}

// normalizePage applies the default page size. Zero limit means default;
// anything outside 1..MaxPageLimit or a negative offset is rejected.
func normalizePage(limit, offset int) (int, int, error) {
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < 1 || limit > MaxPageLimit || offset < 0 {
		return 0, 0, ErrInvalidInput
	}
	return limit, offset, nil
}

func mapSkillError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return err
	case errors.Is(err, repository.ErrSkillNotFound):
		return ErrSkillNotFound
	case errors.Is(err, repository.ErrDuplicateSkill):
		return ErrSkillAlreadyExists
	case errors.Is(err, repository.ErrCategoryNotFound):
		return ErrCategoryNotFound
	default:
		return internal(err)
	}
}
