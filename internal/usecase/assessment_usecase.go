package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"skill-eval/internal/domain/assessment"
	"skill-eval/internal/domain/skill"
	"skill-eval/internal/repository"
	"skill-eval/internal/ws"

	"github.com/google/uuid"
)

const MaxAssessmentNotesLength = 2000

type CreateAssessmentInput struct {
	SkillID    uuid.UUID
	Type       string
	Score      int
	Notes      string
	AssessedAt *time.Time
}

type UpdateAssessmentInput struct {
	Type       *string
	Score      *int
	Notes      *string
	AssessedAt *time.Time
}

type ListAssessmentsParams struct {
	SkillID *uuid.UUID
	Type    string
	Limit   int
	Offset  int
}

type AssessmentPage struct {
	Items  []assessment.Assessment
	Total  int
	Limit  int
	Offset int
}

// AssessmentResult pairs an assessment with the skill state after blending.
type AssessmentResult struct {
	Assessment assessment.Assessment
	Skill      skill.Skill
}

type AssessmentUsecase interface {
	ListAssessments(ctx context.Context, userID uuid.UUID, p ListAssessmentsParams) (AssessmentPage, error)
	GetAssessment(ctx context.Context, userID uuid.UUID, id uuid.UUID) (assessment.Assessment, error)
	CreateAssessment(ctx context.Context, userID uuid.UUID, in CreateAssessmentInput) (AssessmentResult, error)
	UpdateAssessment(ctx context.Context, userID uuid.UUID, id uuid.UUID, in UpdateAssessmentInput) (AssessmentResult, error)
	DeleteAssessment(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}

type Assessment struct {
	repo repository.AssessmentRepository
	now  func() time.Time
	changeNotifier
}

func NewAssessmentUsecase(repo repository.AssessmentRepository, cache Cache, publisher EventPublisher, logger *log.Logger) *Assessment {
	return &Assessment{
		repo:           repo,
		now:            time.Now,
		changeNotifier: changeNotifier{cache: cache, publisher: publisher, logger: logger},
	}
}

func (u *Assessment) ListAssessments(ctx context.Context, userID uuid.UUID, p ListAssessmentsParams) (AssessmentPage, error) {
	limit, offset, err := normalizePage(p.Limit, p.Offset)
	if err != nil {
		return AssessmentPage{}, err
	}

	f := repository.AssessmentFilter{UserID: userID, SkillID: p.SkillID, Limit: limit, Offset: offset}
	if p.Type != "" {
		t, ok := assessment.ParseType(strings.ToUpper(p.Type))
		if !ok {
			return AssessmentPage{}, ErrInvalidInput
		}
		f.Type = &t
	}

	items, total, err := u.repo.ListAssessments(ctx, f)
	if err != nil {
		return AssessmentPage{}, internal(err)
	}
	return AssessmentPage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (u *Assessment) GetAssessment(ctx context.Context, userID uuid.UUID, id uuid.UUID) (assessment.Assessment, error) {
	a, err := u.repo.GetAssessmentByID(ctx, userID, id)
	if err != nil {
		return assessment.Assessment{}, mapAssessmentError(err)
	}
	return a, nil
}

func (u *Assessment) CreateAssessment(ctx context.Context, userID uuid.UUID, in CreateAssessmentInput) (AssessmentResult, error) {
	t, ok := assessment.ParseType(in.Type)
	if !ok || in.SkillID == uuid.Nil {
		return AssessmentResult{}, ErrInvalidInput
	}

	a := assessment.Assessment{
		SkillID:    in.SkillID,
		UserID:     userID,
		Type:       t,
		Score:      in.Score,
		Notes:      strings.TrimSpace(in.Notes),
		AssessedAt: u.assessedAt(in.AssessedAt),
	}
	if err := validateAssessment(a); err != nil {
		return AssessmentResult{}, err
	}

	created, sk, err := u.repo.CreateAssessment(ctx, a, assessment.Blender(a.Score, a.Type))
	if err != nil {
		return AssessmentResult{}, mapAssessmentError(err)
	}

	p := sk.Proficiency
	u.skillChanged(ctx, userID, ws.NewEvent(ws.EventAssessmentRecorded, sk.ID, &p))
	return AssessmentResult{Assessment: created, Skill: sk}, nil
}

// UpdateAssessment re-blends the skill only when the score or type moves;
// editing notes or the date leaves proficiency alone. The comparison runs
// against the assessment as locked by the repository.
func (u *Assessment) UpdateAssessment(ctx context.Context, userID uuid.UUID, id uuid.UUID, in UpdateAssessmentInput) (AssessmentResult, error) {
	var t *assessment.Type
	if in.Type != nil {
		parsed, ok := assessment.ParseType(*in.Type)
		if !ok {
			return AssessmentResult{}, ErrInvalidInput
		}
		t = &parsed
	}

	mutate := func(a *assessment.Assessment) (repository.BlendFunc, error) {
		rescored := false
		if t != nil {
			rescored = rescored || *t != a.Type
			a.Type = *t
		}
		if in.Score != nil {
			rescored = rescored || *in.Score != a.Score
			a.Score = *in.Score
		}
		if in.Notes != nil {
			a.Notes = strings.TrimSpace(*in.Notes)
		}
		if in.AssessedAt != nil {
			a.AssessedAt = u.assessedAt(in.AssessedAt)
		}
		if err := validateAssessment(*a); err != nil {
			return nil, err
		}
		if !rescored {
			return nil, nil
		}
		return assessment.Blender(a.Score, a.Type), nil
	}

	updated, sk, err := u.repo.UpdateAssessment(ctx, userID, id, mutate)
	if err != nil {
		return AssessmentResult{}, mapAssessmentError(err)
	}

	p := sk.Proficiency
	u.skillChanged(ctx, userID, ws.NewEvent(ws.EventAssessmentRecorded, sk.ID, &p))
	return AssessmentResult{Assessment: updated, Skill: sk}, nil
}

// DeleteAssessment keeps the skill's proficiency as is; its history rows
// survive with the assessment reference cleared.
func (u *Assessment) DeleteAssessment(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if err := u.repo.DeleteAssessment(ctx, userID, id); err != nil {
		return mapAssessmentError(err)
	}
	u.invalidate(ctx, userID)
	return nil
}

func (u *Assessment) assessedAt(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return u.now().UTC()
	}
	return t.UTC()
}

func validateAssessment(a assessment.Assessment) error {
	if !skill.ValidProficiency(a.Score) {
		return ErrInvalidInput
	}
	if len(a.Notes) > MaxAssessmentNotesLength {
		return ErrInvalidInput
	}
	return nil
}

func mapAssessmentError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return err
	case errors.Is(err, repository.ErrAssessmentNotFound):
		return ErrAssessmentNotFound
	case errors.Is(err, repository.ErrSkillNotFound):
		return ErrSkillNotFound
	default:
		return internal(err)
	}
}
