// Command skillctl runs operator tasks against the skills database:
// migrations, seeding, a metrics snapshot and per-user skill reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"skill-eval/internal/config"
	dbpostgres "skill-eval/internal/database/postgres"
)

const usage = `usage: skillctl <command> [flags]

commands:
  migrate            apply pending SQL migrations
  seed               insert the default skill categories
  status             print migration state, pool stats and table counts
  report -email E    print a user's skills with proficiency bars
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	config.LoadDotenv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cmd, args := os.Args[1], os.Args[2:]
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	switch cmd {
	case "migrate":
		err = runMigrate(ctx, cfg, db, logger)
	case "seed":
		err = runSeed(ctx, db, logger)
	case "status":
		err = runStatus(ctx, cfg, db, os.Stdout)
	case "report":
		fs := flag.NewFlagSet("report", flag.ExitOnError)
		email := fs.String("email", "", "user email")
		_ = fs.Parse(args)
		err = runReport(ctx, db, *email, os.Stdout)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s failed: %v", cmd, err)
	}
}
