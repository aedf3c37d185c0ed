package seeder

import (
	"context"
	"fmt"

	"skill-eval/internal/database"
	"skill-eval/internal/domain/skill"
)

type CategoriesSeeder struct{}

func (CategoriesSeeder) Name() string { return "skill_categories" }

type categorySeed struct {
	Name        string
	Description string
	Color       string
}

var defaultCategories = []categorySeed{
	{Name: "Programming Languages", Description: "General purpose and scripting languages", Color: "#2563EB"},
	{Name: "Frameworks", Description: "Application and UI frameworks", Color: "#7C3AED"},
	{Name: "Databases", Description: "Relational, document and key-value stores", Color: "#059669"},
	{Name: "DevOps", Description: "Build, release and infrastructure automation", Color: "#D97706"},
	{Name: "Cloud", Description: "Cloud platforms and managed services", Color: "#0891B2"},
	{Name: "Data", Description: "Analytics, pipelines and machine learning", Color: "#DB2777"},
	{Name: "Design", Description: "Product, UX and visual design", Color: "#9333EA"},
	{Name: "Soft Skills", Description: "Communication, leadership and collaboration", Color: "#65A30D"},
}

func (CategoriesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skill_categories", "id", "name", "slug", "description", "color", "created_at"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range defaultCategories {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO skill_categories (id, name, slug, description, color)
				 VALUES (gen_random_uuid(), $1, $2, $3, $4)
				 ON CONFLICT DO NOTHING`,
				it.Name,
				skill.Slugify(it.Name),
				it.Description,
				it.Color,
			)
			if err != nil {
				return fmt.Errorf("insert category %q: %w", it.Name, err)
			}
		}
		return nil
	})
}
