package dto

import (
	"time"

	"skill-eval/internal/domain/assessment"
	"skill-eval/internal/usecase"

	"github.com/google/uuid"
)

type AssessmentResponse struct {
	ID         uuid.UUID `json:"id"`
	SkillID    uuid.UUID `json:"skill_id"`
	SkillName  string    `json:"skill_name,omitempty"`
	Type       string    `json:"type"`
	Score      int       `json:"score"`
	Notes      string    `json:"notes,omitempty"`
	AssessedAt time.Time `json:"assessed_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromAssessment(a assessment.Assessment) AssessmentResponse {
	return AssessmentResponse{
		ID:         a.ID,
		SkillID:    a.SkillID,
		SkillName:  a.SkillName,
		Type:       string(a.Type),
		Score:      a.Score,
		Notes:      a.Notes,
		AssessedAt: a.AssessedAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

type AssessmentListResponse struct {
	Items  []AssessmentResponse `json:"items"`
	Total  int                  `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

func FromAssessmentPage(p usecase.AssessmentPage) AssessmentListResponse {
	items := make([]AssessmentResponse, 0, len(p.Items))
	for _, a := range p.Items {
		items = append(items, FromAssessment(a))
	}
	return AssessmentListResponse{Items: items, Total: p.Total, Limit: p.Limit, Offset: p.Offset}
}

// AssessmentResultResponse carries the skill as it stands after blending.
type AssessmentResultResponse struct {
	Assessment AssessmentResponse `json:"assessment"`
	Skill      SkillResponse      `json:"skill"`
}

func FromAssessmentResult(r usecase.AssessmentResult) AssessmentResultResponse {
	return AssessmentResultResponse{
		Assessment: FromAssessment(r.Assessment),
		Skill:      FromSkill(r.Skill),
	}
}

type CreateAssessmentRequest struct {
	SkillID    uuid.UUID  `json:"skill_id" validate:"required"`
	Type       string     `json:"type" validate:"required,assessment_type"`
	Score      *int       `json:"score" validate:"required,gte=0,lte=10"`
	Notes      string     `json:"notes" validate:"max=2000"`
	AssessedAt *time.Time `json:"assessed_at"`
}

type UpdateAssessmentRequest struct {
	Type       *string    `json:"type" validate:"omitempty,assessment_type"`
	Score      *int       `json:"score" validate:"omitempty,gte=0,lte=10"`
	Notes      *string    `json:"notes" validate:"omitempty,max=2000"`
	AssessedAt *time.Time `json:"assessed_at"`
}
