package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skill-eval/internal/app"
	"skill-eval/internal/config"
	"skill-eval/internal/database/migration"
	"skill-eval/internal/database/seeder"
	"skill-eval/migrations"
)

func main() {
	if path, ok := config.LoadDotenv(); ok {
		log.Printf("loaded env file | path=%s", path)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	bootstrap, cleanup, err := app.Bootstrap(cfg)
	if err != nil {
		log.Fatalf("failed to bootstrap app: %v", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	c := bootstrap.Container
	if cfg.Database.RunMigrations {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		r := migration.Runner{Dir: cfg.Database.MigrationsDir, FS: migrations.FS, Logger: c.Logger}
		err := r.Run(ctx, c.DB.SQLDB())
		cancel()
		if err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
	if cfg.Database.RunSeeders {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger}.Run(ctx, c.DB)
		cancel()
		if err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
	}

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.Fatalf("invalid HTTP port: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- bootstrap.Fiber.Listen(addr)
	}()
	c.Logger.Printf("server starting | addr=%s env=%s version=%s", addr, cfg.App.Environment, cfg.App.Version)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("server error: %v", err)
		}
	case sig := <-sigCh:
		c.Logger.Printf("shutting down | signal=%s", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
