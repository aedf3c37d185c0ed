package repository

import (
	"context"
	"strings"

	"skill-eval/internal/database"
	"skill-eval/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillSort string

const (
	SkillSortName        SkillSort = "name"
	SkillSortProficiency SkillSort = "proficiency"
	SkillSortUpdatedAt   SkillSort = "updated_at"
)

var skillSortColumns = map[SkillSort]string{
	SkillSortName:        "lower(s.name)",
	SkillSortProficiency: "s.proficiency",
	SkillSortUpdatedAt:   "s.updated_at",
}

type SkillFilter struct {
	UserID     uuid.UUID
	CategoryID *uuid.UUID
	Query      string
	Sort       SkillSort
	Desc       bool
	Limit      int
	Offset     int
}

// SkillMutator edits the locked copy of a skill inside the update
// transaction. A non-nil error aborts the update and is returned as is.
type SkillMutator func(s *skill.Skill) error

type SkillRepository interface {
	ListSkills(ctx context.Context, f SkillFilter) ([]skill.Skill, int, error)
	GetSkillByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (skill.Skill, error)
	CreateSkill(ctx context.Context, s skill.Skill) (skill.Skill, error)
	UpdateSkill(ctx context.Context, userID uuid.UUID, id uuid.UUID, mutate SkillMutator, note string) (skill.Skill, error)
	DeleteSkill(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	ListHistory(ctx context.Context, userID uuid.UUID, skillID uuid.UUID, limit, offset int) ([]skill.History, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

const skillSelect = `SELECT s.id, s.user_id, s.category_id, c.name, s.name, s.description,
		s.proficiency, s.target_proficiency, s.created_at, s.updated_at
	 FROM skills s
	 JOIN skill_categories c ON c.id = s.category_id`

func (r *PostgresSkillRepository) ListSkills(ctx context.Context, f SkillFilter) ([]skill.Skill, int, error) {
	where := []string{"s.user_id = $1"}
	args := []any{f.UserID}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, "s.category_id = $"+itoa(len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(q))+"%")
		where = append(where, "lower(s.name) LIKE $"+itoa(len(args)))
	}

	col, ok := skillSortColumns[f.Sort]
	if !ok {
		col = skillSortColumns[SkillSortName]
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}

	args = append(args, f.Limit, f.Offset)
	query := `SELECT s.id, s.user_id, s.category_id, c.name, s.name, s.description,
			s.proficiency, s.target_proficiency, s.created_at, s.updated_at, COUNT(*) OVER()::int
		 FROM skills s
		 JOIN skill_categories c ON c.id = s.category_id
		 WHERE ` + strings.Join(where, " AND ") + `
		 ORDER BY ` + col + ` ` + dir + `, s.id ASC
		 LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	total := 0
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.UserID, &s.CategoryID, &s.CategoryName, &s.Name, &s.Description,
			&s.Proficiency, &s.TargetProficiency, &s.CreatedAt, &s.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(out) == 0 && f.Offset > 0 {
		// Paging past the end still reports the real total.
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*)::int FROM skills s WHERE `+strings.Join(where, " AND "), args[:len(args)-2]...).Scan(&total); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

func (r *PostgresSkillRepository) GetSkillByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (skill.Skill, error) {
	return getSkill(ctx, r.db, userID, id)
}

func (r *PostgresSkillRepository) CreateSkill(ctx context.Context, s skill.Skill) (skill.Skill, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	var created skill.Skill
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO skills (id, user_id, category_id, name, description, proficiency, target_proficiency)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.ID, s.UserID, s.CategoryID, s.Name, s.Description, s.Proficiency, s.TargetProficiency,
		)
		if err != nil {
			return mapSkillWriteError(err)
		}

		if err := insertHistory(ctx, tx, skill.History{
			SkillID:        s.ID,
			UserID:         s.UserID,
			NewProficiency: s.Proficiency,
			Source:         skill.SourceCreated,
		}); err != nil {
			return err
		}

		created, err = getSkill(ctx, tx, s.UserID, s.ID)
		return err
	})
	if err != nil {
		return skill.Skill{}, err
	}
	return created, nil
}

// UpdateSkill locks the skill row, applies mutate to the locked state and
// writes the result back. A MANUAL history entry is recorded only when the
// proficiency differs from the locked value.
func (r *PostgresSkillRepository) UpdateSkill(ctx context.Context, userID uuid.UUID, id uuid.UUID, mutate SkillMutator, note string) (skill.Skill, error) {
	var updated skill.Skill
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		current, err := lockSkill(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		next := current
		if current.TargetProficiency != nil {
			t := *current.TargetProficiency
			next.TargetProficiency = &t
		}
		if err := mutate(&next); err != nil {
			return err
		}
		next.ID, next.UserID = current.ID, current.UserID

		_, err = tx.Exec(ctx,
			`UPDATE skills
			 SET category_id = $3, name = $4, description = $5, proficiency = $6, target_proficiency = $7, updated_at = now()
			 WHERE id = $1 AND user_id = $2`,
			id, userID, next.CategoryID, next.Name, next.Description, next.Proficiency, next.TargetProficiency,
		)
		if err != nil {
			return mapSkillWriteError(err)
		}

		if next.Proficiency != current.Proficiency {
			prev := current.Proficiency
			if err := insertHistory(ctx, tx, skill.History{
				SkillID:             id,
				UserID:              userID,
				PreviousProficiency: &prev,
				NewProficiency:      next.Proficiency,
				Source:              skill.SourceManual,
				Note:                note,
			}); err != nil {
				return err
			}
		}

		updated, err = getSkill(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return skill.Skill{}, err
	}
	return updated, nil
}

func (r *PostgresSkillRepository) DeleteSkill(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func (r *PostgresSkillRepository) ListHistory(ctx context.Context, userID uuid.UUID, skillID uuid.UUID, limit, offset int) ([]skill.History, error) {
	if _, err := getSkill(ctx, r.db, userID, skillID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		historySelect+`
		 WHERE h.skill_id = $1 AND h.user_id = $2
		 ORDER BY h.created_at DESC, h.id DESC
		 LIMIT $3 OFFSET $4`,
		skillID, userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return collectHistory(rows)
}

func getSkill(ctx context.Context, q database.Querier, userID uuid.UUID, id uuid.UUID) (skill.Skill, error) {
	return scanSkillRow(q.QueryRow(ctx, skillSelect+` WHERE s.id = $1 AND s.user_id = $2`, id, userID))
}

// lockSkill reads the full skill and holds its row lock until the surrounding
// transaction ends. The category row is not locked.
func lockSkill(ctx context.Context, tx database.Tx, userID uuid.UUID, id uuid.UUID) (skill.Skill, error) {
	return scanSkillRow(tx.QueryRow(ctx, skillSelect+` WHERE s.id = $1 AND s.user_id = $2 FOR UPDATE OF s`, id, userID))
}

func scanSkillRow(row database.Row) (skill.Skill, error) {
	var s skill.Skill
	if err := row.Scan(&s.ID, &s.UserID, &s.CategoryID, &s.CategoryName, &s.Name, &s.Description,
		&s.Proficiency, &s.TargetProficiency, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if isNoRows(err) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

// lockSkillProficiency reads the current proficiency and holds the row lock
// until the surrounding transaction ends.
func lockSkillProficiency(ctx context.Context, tx database.Tx, userID uuid.UUID, id uuid.UUID) (int, error) {
	var current int
	row := tx.QueryRow(ctx, `SELECT proficiency FROM skills WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID)
	if err := row.Scan(&current); err != nil {
		if isNoRows(err) {
			return 0, ErrSkillNotFound
		}
		return 0, err
	}
	return current, nil
}

func mapSkillWriteError(err error) error {
	switch {
	case IsUniqueViolation(err):
		return ErrDuplicateSkill
	case IsForeignKeyViolation(err) && constraintName(err) == "skills_category_id_fkey":
		return ErrCategoryNotFound
	default:
		return err
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
