package dto

import (
	"time"

	"skill-eval/internal/domain/skill"
	"skill-eval/internal/usecase"

	"github.com/google/uuid"
)

type SkillResponse struct {
	ID                uuid.UUID `json:"id"`
	CategoryID        uuid.UUID `json:"category_id"`
	CategoryName      string    `json:"category_name,omitempty"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Proficiency       int       `json:"proficiency"`
	TargetProficiency *int      `json:"target_proficiency"`
	AtTarget          bool      `json:"at_target"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func FromSkill(s skill.Skill) SkillResponse {
	return SkillResponse{
		ID:                s.ID,
		CategoryID:        s.CategoryID,
		CategoryName:      s.CategoryName,
		Name:              s.Name,
		Description:       s.Description,
		Proficiency:       s.Proficiency,
		TargetProficiency: s.TargetProficiency,
		AtTarget:          s.AtTarget(),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

type SkillListResponse struct {
	Items  []SkillResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func FromSkillPage(p usecase.SkillPage) SkillListResponse {
	items := make([]SkillResponse, 0, len(p.Items))
	for _, s := range p.Items {
		items = append(items, FromSkill(s))
	}
	return SkillListResponse{Items: items, Total: p.Total, Limit: p.Limit, Offset: p.Offset}
}

func FromHistory(items []skill.History) []usecase.HistoryItem {
	out := make([]usecase.HistoryItem, 0, len(items))
	for _, h := range items {
		out = append(out, usecase.NewHistoryItem(h))
	}
	return out
}

type CreateSkillRequest struct {
	CategoryID        uuid.UUID `json:"category_id" validate:"required"`
	Name              string    `json:"name" validate:"required,max=100"`
	Description       string    `json:"description" validate:"max=1000"`
	Proficiency       *int      `json:"proficiency" validate:"required,gte=0,lte=10"`
	TargetProficiency *int      `json:"target_proficiency" validate:"omitempty,gte=0,lte=10"`
}

// UpdateSkillRequest is partial. An explicit null target is requested with
// clear_target.
type UpdateSkillRequest struct {
	CategoryID        *uuid.UUID `json:"category_id"`
	Name              *string    `json:"name" validate:"omitempty,min=1,max=100"`
	Description       *string    `json:"description" validate:"omitempty,max=1000"`
	Proficiency       *int       `json:"proficiency" validate:"omitempty,gte=0,lte=10"`
	TargetProficiency *int       `json:"target_proficiency" validate:"omitempty,gte=0,lte=10"`
	ClearTarget       bool       `json:"clear_target"`
	Note              string     `json:"note" validate:"max=500"`
}
