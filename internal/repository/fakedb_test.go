package repository

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"strings"
	"time"

	"skill-eval/internal/database"
	"skill-eval/internal/domain/assessment"
	"skill-eval/internal/domain/skill"
)

type stmt struct {
	query string
	args  []any
}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return errors.New("fakeRow: column count mismatch")
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

// recordingDB serves queued QueryRow results in order and records every
// statement. It acts as its own transaction.
type recordingDB struct {
	stmts      []stmt
	rows       []fakeRow
	execErr    func(query string) error
	committed  bool
	rolledBack bool
}

func (d *recordingDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	d.stmts = append(d.stmts, stmt{query: query, args: args})
	if d.execErr != nil {
		if err := d.execErr(query); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

func (d *recordingDB) Query(_ context.Context, query string, args ...any) (database.Rows, error) {
	d.stmts = append(d.stmts, stmt{query: query, args: args})
	return nil, errors.New("recordingDB: Query not scripted")
}

func (d *recordingDB) QueryRow(_ context.Context, query string, args ...any) database.Row {
	d.stmts = append(d.stmts, stmt{query: query, args: args})
	if len(d.rows) == 0 {
		return fakeRow{err: errors.New("recordingDB: no row queued")}
	}
	r := d.rows[0]
	d.rows = d.rows[1:]
	return r
}

func (d *recordingDB) Ping(context.Context) error { return nil }
func (d *recordingDB) Close() error               { return nil }
func (d *recordingDB) SQLDB() *sql.DB             { return nil }

func (d *recordingDB) Begin(context.Context) (database.Tx, error) { return d, nil }

func (d *recordingDB) Commit(context.Context) error {
	d.committed = true
	return nil
}

func (d *recordingDB) Rollback(context.Context) error {
	if !d.committed {
		d.rolledBack = true
	}
	return nil
}

// index returns the position of the first statement containing substr, or -1.
func (d *recordingDB) index(substr string) int {
	for i, s := range d.stmts {
		if strings.Contains(s.query, substr) {
			return i
		}
	}
	return -1
}

func (d *recordingDB) count(substr string) int {
	n := 0
	for _, s := range d.stmts {
		if strings.Contains(s.query, substr) {
			n++
		}
	}
	return n
}

func skillRow(s skill.Skill) fakeRow {
	return fakeRow{vals: []any{
		s.ID, s.UserID, s.CategoryID, s.CategoryName, s.Name, s.Description,
		s.Proficiency, s.TargetProficiency, s.CreatedAt, s.UpdatedAt,
	}}
}

func assessmentRow(a assessment.Assessment) fakeRow {
	return fakeRow{vals: []any{
		a.ID, a.SkillID, a.UserID, a.SkillName, string(a.Type), a.Score, a.Notes, a.AssessedAt, a.CreatedAt, a.UpdatedAt,
	}}
}

var fixedTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
