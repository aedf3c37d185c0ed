package repository

import (
	"context"

	"skill-eval/internal/database"
)

// metricTables is the fixed set of tables counted by TableCounts. Names are
// interpolated into SQL, so the list must stay constant.
var metricTables = []string{"users", "skill_categories", "skills", "assessments", "skill_history"}

type DatabaseInfo struct {
	ServerVersion string
	SizeBytes     int64
}

type MetricsRepository interface {
	TableCounts(ctx context.Context) (map[string]int64, error)
	DatabaseInfo(ctx context.Context) (DatabaseInfo, error)
}

type PostgresMetricsRepository struct {
	db database.DB
}

func NewPostgresMetricsRepository(db database.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) TableCounts(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(metricTables))
	for _, t := range metricTables {
		var n int64
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+t).Scan(&n); err != nil {
			return nil, err
		}
		out[t] = n
	}
	return out, nil
}

func (r *PostgresMetricsRepository) DatabaseInfo(ctx context.Context) (DatabaseInfo, error) {
	var info DatabaseInfo
	row := r.db.QueryRow(ctx, `SELECT current_setting('server_version'), pg_database_size(current_database())`)
	if err := row.Scan(&info.ServerVersion, &info.SizeBytes); err != nil {
		return DatabaseInfo{}, err
	}
	return info, nil
}
