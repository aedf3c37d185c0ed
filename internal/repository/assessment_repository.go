package repository

import (
	"context"
	"fmt"
	"strings"

	"skill-eval/internal/database"
	"skill-eval/internal/domain/assessment"
	"skill-eval/internal/domain/skill"

	"github.com/google/uuid"
)

// BlendFunc maps a skill's current proficiency to the value it should hold
// after an assessment is recorded. A nil BlendFunc leaves it unchanged.
type BlendFunc func(current int) int

// AssessmentMutator edits the locked copy of an assessment and returns the
// blend to apply to its skill, or nil to leave proficiency alone. A non-nil
// error aborts the update and is returned as is.
type AssessmentMutator func(a *assessment.Assessment) (BlendFunc, error)

type AssessmentFilter struct {
	UserID  uuid.UUID
	SkillID *uuid.UUID
	Type    *assessment.Type
	Limit   int
	Offset  int
}

type AssessmentRepository interface {
	ListAssessments(ctx context.Context, f AssessmentFilter) ([]assessment.Assessment, int, error)
	GetAssessmentByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (assessment.Assessment, error)
	CreateAssessment(ctx context.Context, a assessment.Assessment, blend BlendFunc) (assessment.Assessment, skill.Skill, error)
	UpdateAssessment(ctx context.Context, userID uuid.UUID, id uuid.UUID, mutate AssessmentMutator) (assessment.Assessment, skill.Skill, error)
	DeleteAssessment(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}

type PostgresAssessmentRepository struct {
	db database.DB
}

func NewPostgresAssessmentRepository(db database.DB) *PostgresAssessmentRepository {
	return &PostgresAssessmentRepository{db: db}
}

const assessmentSelect = `SELECT a.id, a.skill_id, a.user_id, s.name, a.type, a.score, a.notes, a.assessed_at, a.created_at, a.updated_at
	 FROM assessments a
	 JOIN skills s ON s.id = a.skill_id`

func (r *PostgresAssessmentRepository) ListAssessments(ctx context.Context, f AssessmentFilter) ([]assessment.Assessment, int, error) {
	where := []string{"a.user_id = $1"}
	args := []any{f.UserID}
	if f.SkillID != nil {
		args = append(args, *f.SkillID)
		where = append(where, "a.skill_id = $"+itoa(len(args)))
	}
	if f.Type != nil {
		args = append(args, string(*f.Type))
		where = append(where, "a.type = $"+itoa(len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)::int FROM assessments a WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	rows, err := r.db.Query(ctx,
		assessmentSelect+` WHERE `+cond+`
		 ORDER BY a.assessed_at DESC, a.id DESC
		 LIMIT $`+itoa(len(args)-1)+` OFFSET $`+itoa(len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]assessment.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresAssessmentRepository) GetAssessmentByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (assessment.Assessment, error) {
	return getAssessment(ctx, r.db, userID, id)
}

// CreateAssessment stores a and applies blend to the assessed skill in one
// transaction, appending an ASSESSMENT history entry when the value moves.
func (r *PostgresAssessmentRepository) CreateAssessment(ctx context.Context, a assessment.Assessment, blend BlendFunc) (assessment.Assessment, skill.Skill, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	var (
		created assessment.Assessment
		sk      skill.Skill
	)
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		current, err := lockSkillProficiency(ctx, tx, a.UserID, a.SkillID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO assessments (id, skill_id, user_id, type, score, notes, assessed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			a.ID, a.SkillID, a.UserID, string(a.Type), a.Score, a.Notes, a.AssessedAt,
		)
		if err != nil {
			return err
		}

		if err := applyBlend(ctx, tx, a, current, blend); err != nil {
			return err
		}

		created, err = getAssessment(ctx, tx, a.UserID, a.ID)
		if err != nil {
			return err
		}
		sk, err = getSkill(ctx, tx, a.UserID, a.SkillID)
		return err
	})
	if err != nil {
		return assessment.Assessment{}, skill.Skill{}, err
	}
	return created, sk, nil
}

// UpdateAssessment locks the assessed skill and then the assessment, applies
// mutate to the locked assessment and re-blends the skill with the returned
// BlendFunc. The skill is locked first, matching the order of skill deletes.
func (r *PostgresAssessmentRepository) UpdateAssessment(ctx context.Context, userID uuid.UUID, id uuid.UUID, mutate AssessmentMutator) (assessment.Assessment, skill.Skill, error) {
	var (
		updated assessment.Assessment
		sk      skill.Skill
	)
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		var skillID uuid.UUID
		row := tx.QueryRow(ctx, `SELECT skill_id FROM assessments WHERE id = $1 AND user_id = $2`, id, userID)
		if err := row.Scan(&skillID); err != nil {
			if isNoRows(err) {
				return ErrAssessmentNotFound
			}
			return err
		}

		current, err := lockSkillProficiency(ctx, tx, userID, skillID)
		if err != nil {
			return err
		}

		locked, err := scanAssessment(tx.QueryRow(ctx,
			assessmentSelect+` WHERE a.id = $1 AND a.user_id = $2 FOR UPDATE OF a`, id, userID))
		if err != nil {
			if isNoRows(err) {
				return ErrAssessmentNotFound
			}
			return err
		}

		a := locked
		blend, err := mutate(&a)
		if err != nil {
			return err
		}
		a.ID, a.UserID, a.SkillID = locked.ID, locked.UserID, locked.SkillID

		_, err = tx.Exec(ctx,
			`UPDATE assessments
			 SET type = $3, score = $4, notes = $5, assessed_at = $6, updated_at = now()
			 WHERE id = $1 AND user_id = $2`,
			a.ID, a.UserID, string(a.Type), a.Score, a.Notes, a.AssessedAt,
		)
		if err != nil {
			return err
		}

		if err := applyBlend(ctx, tx, a, current, blend); err != nil {
			return err
		}

		updated, err = getAssessment(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		sk, err = getSkill(ctx, tx, userID, skillID)
		return err
	})
	if err != nil {
		return assessment.Assessment{}, skill.Skill{}, err
	}
	return updated, sk, nil
}

func (r *PostgresAssessmentRepository) DeleteAssessment(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM assessments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAssessmentNotFound
	}
	return nil
}

func applyBlend(ctx context.Context, tx database.Tx, a assessment.Assessment, current int, blend BlendFunc) error {
	if blend == nil {
		return nil
	}
	next := skill.ClampProficiency(blend(current))
	if next == current {
		return nil
	}

	if _, err := tx.Exec(ctx,
		`UPDATE skills SET proficiency = $3, updated_at = now() WHERE id = $1 AND user_id = $2`,
		a.SkillID, a.UserID, next,
	); err != nil {
		return err
	}

	prev := current
	assessmentID := a.ID
	return insertHistory(ctx, tx, skill.History{
		SkillID:             a.SkillID,
		UserID:              a.UserID,
		PreviousProficiency: &prev,
		NewProficiency:      next,
		Source:              skill.SourceAssessment,
		AssessmentID:        &assessmentID,
		Note:                fmt.Sprintf("%s assessment scored %d", a.Type, a.Score),
	})
}

func getAssessment(ctx context.Context, q database.Querier, userID uuid.UUID, id uuid.UUID) (assessment.Assessment, error) {
	a, err := scanAssessment(q.QueryRow(ctx, assessmentSelect+` WHERE a.id = $1 AND a.user_id = $2`, id, userID))
	if err != nil {
		if isNoRows(err) {
			return assessment.Assessment{}, ErrAssessmentNotFound
		}
		return assessment.Assessment{}, err
	}
	return a, nil
}

func scanAssessment(row database.Row) (assessment.Assessment, error) {
	var a assessment.Assessment
	var typ string
	if err := row.Scan(&a.ID, &a.SkillID, &a.UserID, &a.SkillName, &typ, &a.Score, &a.Notes, &a.AssessedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return assessment.Assessment{}, err
	}
	a.Type = assessment.Type(typ)
	return a, nil
}
