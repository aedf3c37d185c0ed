package database

import (
	"context"
	"database/sql"
	"time"
)

// Querier is the statement surface shared by DB and Tx, so repositories can
// run the same SQL inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

type DB interface {
	Querier

	Ping(ctx context.Context) error
	Close() error

	Begin(ctx context.Context) (Tx, error)

	SQLDB() *sql.DB
}

type Tx interface {
	Querier

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Close()
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type Row interface {
	Scan(dest ...any) error
}

// PoolStats is a driver-neutral snapshot of connection pool usage.
type PoolStats struct {
	MaxConns          int32         `json:"max_conns"`
	TotalConns        int32         `json:"total_conns"`
	IdleConns         int32         `json:"idle_conns"`
	AcquiredConns     int32         `json:"acquired_conns"`
	AcquireCount      int64         `json:"acquire_count"`
	EmptyAcquireCount int64         `json:"empty_acquire_count"`
	AcquireDuration   time.Duration `json:"acquire_duration_ns"`
}

// StatsProvider is implemented by pooled DBs.
type StatsProvider interface {
	Stats() PoolStats
}

// WithTx runs fn in a transaction, committing on nil error and rolling back
// otherwise.
func WithTx(ctx context.Context, db DB, fn func(tx Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
