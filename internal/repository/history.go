package repository

import (
	"context"
	"strconv"

	"skill-eval/internal/database"
	"skill-eval/internal/domain/skill"

	"github.com/google/uuid"
)

const historySelect = `SELECT h.id, h.skill_id, h.user_id, s.name, h.previous_proficiency, h.new_proficiency,
		h.source, h.assessment_id, h.note, h.created_at
	 FROM skill_history h
	 JOIN skills s ON s.id = h.skill_id`

func insertHistory(ctx context.Context, q database.Querier, h skill.History) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	_, err := q.Exec(ctx,
		`INSERT INTO skill_history (id, skill_id, user_id, previous_proficiency, new_proficiency, source, assessment_id, note)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		h.ID, h.SkillID, h.UserID, h.PreviousProficiency, h.NewProficiency, string(h.Source), h.AssessmentID, h.Note,
	)
	return err
}

func collectHistory(rows database.Rows) ([]skill.History, error) {
	defer rows.Close()

	out := make([]skill.History, 0)
	for rows.Next() {
		var h skill.History
		var source string
		if err := rows.Scan(&h.ID, &h.SkillID, &h.UserID, &h.SkillName, &h.PreviousProficiency, &h.NewProficiency,
			&source, &h.AssessmentID, &h.Note, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.Source = skill.HistorySource(source)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
