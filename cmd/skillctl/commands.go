package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"skill-eval/internal/config"
	"skill-eval/internal/database/migration"
	dbpostgres "skill-eval/internal/database/postgres"
	"skill-eval/internal/database/seeder"
	"skill-eval/internal/domain/skill"
	"skill-eval/internal/domain/user"
	"skill-eval/internal/repository"
	"skill-eval/migrations"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

func migrationRunner(cfg config.Config, logger *log.Logger) migration.Runner {
	return migration.Runner{Dir: cfg.Database.MigrationsDir, FS: migrations.FS, Logger: logger}
}

func runMigrate(ctx context.Context, cfg config.Config, db *dbpostgres.Pool, logger *log.Logger) error {
	if err := migrationRunner(cfg, logger).Run(ctx, db.SQLDB()); err != nil {
		return err
	}
	color.Green("migrations up to date")
	return nil
}

func runSeed(ctx context.Context, db *dbpostgres.Pool, logger *log.Logger) error {
	if err := (seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}).Run(ctx, db); err != nil {
		return err
	}
	color.Green("seeding complete")
	return nil
}

func runStatus(ctx context.Context, cfg config.Config, db *dbpostgres.Pool, w io.Writer) error {
	pending, err := migrationRunner(cfg, nil).Pending(ctx, db.SQLDB())
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		color.Green("migrations: up to date")
	} else {
		color.Yellow("migrations: %d pending", len(pending))
		for _, m := range pending {
			fmt.Fprintf(w, "  V%d %s\n", m.Version, m.Name)
		}
	}

	metrics := repository.NewPostgresMetricsRepository(db)
	info, err := metrics.DatabaseInfo(ctx)
	if err != nil {
		return err
	}
	counts, err := metrics.TableCounts(ctx)
	if err != nil {
		return err
	}

	color.Cyan("\nDatabase")
	fmt.Fprintf(w, "  version: %s\n  size:    %s\n", info.ServerVersion, humanBytes(info.SizeBytes))

	st := db.Stats()
	color.Cyan("\nConnection pool")
	pool := tablewriter.NewWriter(w)
	pool.SetHeader([]string{"Max", "Total", "Acquired", "Idle", "Acquire count"})
	pool.Append([]string{
		strconv.Itoa(int(st.MaxConns)),
		strconv.Itoa(int(st.TotalConns)),
		strconv.Itoa(int(st.AcquiredConns)),
		strconv.Itoa(int(st.IdleConns)),
		strconv.FormatInt(st.AcquireCount, 10),
	})
	pool.Render()

	color.Cyan("\nTables")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Table", "Rows"})
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		table.Append([]string{name, strconv.FormatInt(counts[name], 10)})
	}
	table.Render()
	return nil
}

func runReport(ctx context.Context, db *dbpostgres.Pool, email string, w io.Writer) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("-email is required")
	}

	usr, err := repository.NewPostgresUserRepository(db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return fmt.Errorf("no user with email %s", email)
		}
		return err
	}

	skills, err := allSkills(ctx, repository.NewPostgresSkillRepository(db), usr)
	if err != nil {
		return err
	}

	color.Cyan("Skills for %s <%s>", usr.Name, usr.Email)
	if len(skills) == 0 {
		fmt.Fprintln(w, "  no skills recorded")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Skill", "Category", "Proficiency", "Target"})
	table.SetAutoWrapText(false)
	for _, s := range skills {
		target := "-"
		if s.TargetProficiency != nil {
			target = strconv.Itoa(*s.TargetProficiency)
		}
		table.Append([]string{s.Name, s.CategoryName, proficiencyBar(s), target})
	}
	table.Render()
	return nil
}

func allSkills(ctx context.Context, repo repository.SkillRepository, usr user.User) ([]skill.Skill, error) {
	out := make([]skill.Skill, 0)
	for offset := 0; ; offset += 100 {
		page, total, err := repo.ListSkills(ctx, repository.SkillFilter{
			UserID: usr.ID,
			Sort:   repository.SkillSortProficiency,
			Desc:   true,
			Limit:  100,
			Offset: offset,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) == 0 || len(out) >= total {
			return out, nil
		}
	}
}

// proficiencyBar renders a ten-cell bar colored by how the skill stands
// against its target, or against the scale midpoint when it has none.
func proficiencyBar(s skill.Skill) string {
	p := skill.ClampProficiency(s.Proficiency)
	bar := strings.Repeat("█", p) + strings.Repeat("░", skill.MaxProficiency-p)
	label := fmt.Sprintf("%s %2d", bar, p)

	switch {
	case s.AtTarget():
		return color.GreenString(label)
	case s.TargetProficiency != nil:
		return color.YellowString(label)
	case p >= 7:
		return color.GreenString(label)
	case p >= 4:
		return color.YellowString(label)
	default:
		return color.RedString(label)
	}
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
