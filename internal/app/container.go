package app

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"skill-eval/internal/config"
	dbpostgres "skill-eval/internal/database/postgres"
	"skill-eval/internal/infrastructure/cache"
	"skill-eval/internal/infrastructure/oauth"
	"skill-eval/internal/pkg/jwt"
	"skill-eval/internal/repository"
	"skill-eval/internal/usecase"
	"skill-eval/internal/ws"
)

// Container owns the process-wide dependencies and the usecases built on
// them. Close releases them in reverse order of construction.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB     *dbpostgres.Pool
	Redis  *cache.Redis
	States usecase.StateStore
	Hub    *ws.Hub
	JWT    jwt.Service
	Google *oauth.GoogleClient

	Auth        usecase.AuthUsecase
	Users       usecase.UserUsecase
	Categories  usecase.CategoryUsecase
	Skills      usecase.SkillUsecase
	Assessments usecase.AssessmentUsecase
	Analytics   usecase.AnalyticsUsecase
	System      usecase.SystemUsecase
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	rdb := cache.NewRedis(ctx, cfg.Redis, logger)

	var states usecase.StateStore = rdb
	if !rdb.Available() {
		logger.Printf("Redis unavailable, keeping OAuth state in memory | addr=%s:%s", cfg.Redis.Host, cfg.Redis.Port)
		states = cache.NewMemory()
	}

	hub := ws.NewHub(logger)
	go hub.Run()

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
		cfg.JWT.Issuer,
	)
	google := oauth.NewGoogleClient(cfg.Google)
	if !google.Enabled() {
		logger.Printf("Google OAuth not configured, login endpoints will answer 503")
	}

	userRepo := repository.NewPostgresUserRepository(db)
	categoryRepo := repository.NewPostgresCategoryRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)
	assessmentRepo := repository.NewPostgresAssessmentRepository(db)
	analyticsRepo := repository.NewPostgresAnalyticsRepository(db)
	metricsRepo := repository.NewPostgresMetricsRepository(db)

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Redis:  rdb,
		States: states,
		Hub:    hub,
		JWT:    jwtSvc,
		Google: google,

		Auth:        usecase.NewAuthUsecase(userRepo, jwtSvc, google, states, cfg.App.AdminEmails, logger),
		Users:       usecase.NewUserUsecase(userRepo),
		Categories:  usecase.NewCategoryUsecase(categoryRepo, rdb, logger),
		Skills:      usecase.NewSkillUsecase(skillRepo, categoryRepo, rdb, hub, logger),
		Assessments: usecase.NewAssessmentUsecase(assessmentRepo, rdb, hub, logger),
		Analytics:   usecase.NewAnalyticsUsecase(analyticsRepo, rdb, cfg.Analytics.CacheTTL, logger),
		System: usecase.NewSystemUsecase(db, rdb, metricsRepo, db, hub, usecase.AppInfo{
			Name:        cfg.App.AppName,
			Environment: cfg.App.Environment,
			Version:     cfg.App.Version,
		}),
	}
	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Hub != nil {
		c.Hub.Stop()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
