package repository

import (
	"context"
	"time"

	"skill-eval/internal/database"
	"skill-eval/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillSummary struct {
	TotalSkills        int
	AverageProficiency float64
	WithTarget         int
	AtTarget           int
	TotalAssessments   int
}

type CategoryStat struct {
	CategoryID         uuid.UUID
	Name               string
	Color              string
	SkillCount         int
	AverageProficiency float64
}

type ProgressPoint struct {
	Date                  time.Time
	Changes               int
	NetChange             int
	AverageNewProficiency float64
}

type SkillImprovement struct {
	SkillID     uuid.UUID
	Name        string
	Proficiency int
	Delta       int
}

type AnalyticsRepository interface {
	Summary(ctx context.Context, userID uuid.UUID) (SkillSummary, error)
	CategoryBreakdown(ctx context.Context, userID uuid.UUID) ([]CategoryStat, error)
	AssessmentCountsByType(ctx context.Context, userID uuid.UUID) (map[string]int, error)
	RecentHistory(ctx context.Context, userID uuid.UUID, limit int) ([]skill.History, error)
	ProgressSeries(ctx context.Context, userID uuid.UUID, since time.Time) ([]ProgressPoint, error)
	TopSkills(ctx context.Context, userID uuid.UUID, limit int) ([]skill.Skill, error)
	MostImproved(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]SkillImprovement, error)
}

type PostgresAnalyticsRepository struct {
	db database.DB
}

func NewPostgresAnalyticsRepository(db database.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

func (r *PostgresAnalyticsRepository) Summary(ctx context.Context, userID uuid.UUID) (SkillSummary, error) {
	var s SkillSummary
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*)::int,
		        COALESCE(AVG(proficiency), 0)::float8,
		        COUNT(*) FILTER (WHERE target_proficiency IS NOT NULL)::int,
		        COUNT(*) FILTER (WHERE target_proficiency IS NOT NULL AND proficiency >= target_proficiency)::int,
		        (SELECT COUNT(*)::int FROM assessments WHERE user_id = $1)
		 FROM skills
		 WHERE user_id = $1`,
		userID,
	)
	if err := row.Scan(&s.TotalSkills, &s.AverageProficiency, &s.WithTarget, &s.AtTarget, &s.TotalAssessments); err != nil {
		return SkillSummary{}, err
	}
	return s, nil
}

func (r *PostgresAnalyticsRepository) CategoryBreakdown(ctx context.Context, userID uuid.UUID) ([]CategoryStat, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.name, c.color, COUNT(s.id)::int, COALESCE(AVG(s.proficiency), 0)::float8
		 FROM skill_categories c
		 JOIN skills s ON s.category_id = c.id AND s.user_id = $1
		 GROUP BY c.id
		 ORDER BY COUNT(s.id) DESC, c.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CategoryStat, 0)
	for rows.Next() {
		var c CategoryStat
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Color, &c.SkillCount, &c.AverageProficiency); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAnalyticsRepository) AssessmentCountsByType(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT type, COUNT(*)::int FROM assessments WHERE user_id = $1 GROUP BY type`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		out[typ] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAnalyticsRepository) RecentHistory(ctx context.Context, userID uuid.UUID, limit int) ([]skill.History, error) {
	rows, err := r.db.Query(ctx,
		historySelect+`
		 WHERE h.user_id = $1
		 ORDER BY h.created_at DESC, h.id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectHistory(rows)
}

// ProgressSeries buckets history entries since the given instant per UTC day.
func (r *PostgresAnalyticsRepository) ProgressSeries(ctx context.Context, userID uuid.UUID, since time.Time) ([]ProgressPoint, error) {
	rows, err := r.db.Query(ctx,
		`SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day,
		        COUNT(*)::int,
		        COALESCE(SUM(new_proficiency - COALESCE(previous_proficiency, 0)), 0)::int,
		        AVG(new_proficiency)::float8
		 FROM skill_history
		 WHERE user_id = $1 AND created_at >= $2
		 GROUP BY day
		 ORDER BY day ASC`,
		userID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ProgressPoint, 0)
	for rows.Next() {
		var p ProgressPoint
		if err := rows.Scan(&p.Date, &p.Changes, &p.NetChange, &p.AverageNewProficiency); err != nil {
			return nil, err
		}
		p.Date = time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, time.UTC)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAnalyticsRepository) TopSkills(ctx context.Context, userID uuid.UUID, limit int) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx,
		skillSelect+`
		 WHERE s.user_id = $1
		 ORDER BY s.proficiency DESC, s.updated_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.UserID, &s.CategoryID, &s.CategoryName, &s.Name, &s.Description,
			&s.Proficiency, &s.TargetProficiency, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MostImproved ranks skills by the net proficiency gained through MANUAL and
// ASSESSMENT changes since the given instant.
func (r *PostgresAnalyticsRepository) MostImproved(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]SkillImprovement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.name, s.proficiency, SUM(h.new_proficiency - h.previous_proficiency)::int AS delta
		 FROM skill_history h
		 JOIN skills s ON s.id = h.skill_id
		 WHERE h.user_id = $1 AND h.created_at >= $2 AND h.previous_proficiency IS NOT NULL
		 GROUP BY s.id
		 HAVING SUM(h.new_proficiency - h.previous_proficiency) > 0
		 ORDER BY delta DESC, s.name ASC
		 LIMIT $3`,
		userID, since, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SkillImprovement, 0)
	for rows.Next() {
		var it SkillImprovement
		if err := rows.Scan(&it.SkillID, &it.Name, &it.Proficiency, &it.Delta); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
