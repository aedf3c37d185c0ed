package usecase

import (
	"context"
	"runtime"
	"time"

	"skill-eval/internal/database"
	"skill-eval/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
	HealthDown     = "down"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Healthy reports whether the service can serve requests. A missing cache
// only degrades it.
func (h HealthReport) Healthy() bool {
	return h.Checks["database"] == HealthOK
}

type DatabaseMetrics struct {
	Pool          *database.PoolStats `json:"pool,omitempty"`
	Tables        map[string]int64    `json:"tables"`
	ServerVersion string              `json:"server_version"`
	SizeBytes     int64               `json:"size_bytes"`
}

type Metrics struct {
	Database  DatabaseMetrics `json:"database"`
	WSClients int             `json:"ws_clients"`
	Collected time.Time       `json:"collected_at"`
}

type MemoryStatus struct {
	AllocBytes      uint64 `json:"alloc_bytes"`
	TotalAllocBytes uint64 `json:"total_alloc_bytes"`
	SysBytes        uint64 `json:"sys_bytes"`
	HeapObjects     uint64 `json:"heap_objects"`
	NumGC           uint32 `json:"num_gc"`
}

type Status struct {
	App           string       `json:"app"`
	Environment   string       `json:"environment"`
	Version       string       `json:"version"`
	GoVersion     string       `json:"go_version"`
	StartedAt     time.Time    `json:"started_at"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	Goroutines    int          `json:"goroutines"`
	Memory        MemoryStatus `json:"memory"`
}

type AppInfo struct {
	Name        string
	Environment string
	Version     string
}

type SystemUsecase interface {
	Health(ctx context.Context) HealthReport
	Metrics(ctx context.Context) (Metrics, error)
	Status() Status
}

type ClientCounter interface {
	ClientCount() int
}

type System struct {
	db      Pinger
	cache   Pinger
	metrics repository.MetricsRepository
	pool    database.StatsProvider
	clients ClientCounter
	info    AppInfo
	started time.Time
	now     func() time.Time
}

func NewSystemUsecase(db Pinger, cache Pinger, metrics repository.MetricsRepository, pool database.StatsProvider, clients ClientCounter, info AppInfo) *System {
	return &System{
		db:      db,
		cache:   cache,
		metrics: metrics,
		pool:    pool,
		clients: clients,
		info:    info,
		started: time.Now(),
		now:     time.Now,
	}
}

func (u *System) Health(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	r := HealthReport{Status: HealthOK, Checks: map[string]string{
		"database": probe(ctx, u.db),
		"cache":    probe(ctx, u.cache),
	}}
	for _, v := range r.Checks {
		if v != HealthOK {
			r.Status = HealthDegraded
		}
	}
	return r
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return HealthDown
	}
	if err := p.Ping(ctx); err != nil {
		return HealthDown
	}
	return HealthOK
}

func (u *System) Metrics(ctx context.Context) (Metrics, error) {
	var (
		tables map[string]int64
		info   repository.DatabaseInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tables, err = u.metrics.TableCounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		info, err = u.metrics.DatabaseInfo(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Metrics{}, internal(err)
	}

	out := Metrics{
		Database: DatabaseMetrics{
			Tables:        tables,
			ServerVersion: info.ServerVersion,
			SizeBytes:     info.SizeBytes,
		},
		Collected: u.now().UTC(),
	}
	if u.pool != nil {
		st := u.pool.Stats()
		out.Database.Pool = &st
	}
	if u.clients != nil {
		out.WSClients = u.clients.ClientCount()
	}
	return out, nil
}

func (u *System) Status() Status {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	now := u.now()
	return Status{
		App:           u.info.Name,
		Environment:   u.info.Environment,
		Version:       u.info.Version,
		GoVersion:     runtime.Version(),
		StartedAt:     u.started.UTC(),
		UptimeSeconds: int64(now.Sub(u.started) / time.Second),
		Goroutines:    runtime.NumGoroutine(),
		Memory: MemoryStatus{
			AllocBytes:      m.Alloc,
			TotalAllocBytes: m.TotalAlloc,
			SysBytes:        m.Sys,
			HeapObjects:     m.HeapObjects,
			NumGC:           m.NumGC,
		},
	}
}
