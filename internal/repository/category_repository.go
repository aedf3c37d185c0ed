package repository

import (
	"context"

	"skill-eval/internal/database"
	"skill-eval/internal/domain/skill"

	"github.com/google/uuid"
)

type CategoryRepository interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]skill.Category, error)
	GetCategoryByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (skill.Category, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateCategory(ctx context.Context, c skill.Category) (skill.Category, error)
	UpdateCategory(ctx context.Context, c skill.Category) (skill.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type PostgresCategoryRepository struct {
	db database.DB
}

func NewPostgresCategoryRepository(db database.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

// ListCategories returns every category with the number of skills userID
// keeps in it.
func (r *PostgresCategoryRepository) ListCategories(ctx context.Context, userID uuid.UUID) ([]skill.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.name, c.slug, c.description, c.color, c.created_at, c.updated_at,
		        COUNT(s.id)::int
		 FROM skill_categories c
		 LEFT JOIN skills s ON s.category_id = c.id AND s.user_id = $1
		 GROUP BY c.id
		 ORDER BY c.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCategoryRepository) GetCategoryByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (skill.Category, error) {
	row := r.db.QueryRow(ctx,
		`SELECT c.id, c.name, c.slug, c.description, c.color, c.created_at, c.updated_at,
		        (SELECT COUNT(*)::int FROM skills s WHERE s.category_id = c.id AND s.user_id = $2)
		 FROM skill_categories c
		 WHERE c.id = $1`,
		id, userID,
	)
	c, err := scanCategory(row)
	if err != nil {
		if isNoRows(err) {
			return skill.Category{}, ErrCategoryNotFound
		}
		return skill.Category{}, err
	}
	return c, nil
}

func (r *PostgresCategoryRepository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM skill_categories WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresCategoryRepository) CreateCategory(ctx context.Context, c skill.Category) (skill.Category, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO skill_categories (id, name, slug, description, color)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, name, slug, description, color, created_at, updated_at, 0`,
		c.ID, c.Name, c.Slug, c.Description, c.Color,
	)
	created, err := scanCategory(row)
	if err != nil {
		if IsUniqueViolation(err) {
			return skill.Category{}, ErrDuplicateCategory
		}
		return skill.Category{}, err
	}
	return created, nil
}

func (r *PostgresCategoryRepository) UpdateCategory(ctx context.Context, c skill.Category) (skill.Category, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE skill_categories
		 SET name = $2, slug = $3, description = $4, color = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING id, name, slug, description, color, created_at, updated_at, 0`,
		c.ID, c.Name, c.Slug, c.Description, c.Color,
	)
	updated, err := scanCategory(row)
	if err != nil {
		switch {
		case isNoRows(err):
			return skill.Category{}, ErrCategoryNotFound
		case IsUniqueViolation(err):
			return skill.Category{}, ErrDuplicateCategory
		default:
			return skill.Category{}, err
		}
	}
	return updated, nil
}

func (r *PostgresCategoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM skill_categories WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return ErrCategoryInUse
		}
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row database.Row) (skill.Category, error) {
	var c skill.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.CreatedAt, &c.UpdatedAt, &c.SkillCount)
	return c, err
}
