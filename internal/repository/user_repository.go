package repository

import (
	"context"
	"strings"

	"skill-eval/internal/database"
	"skill-eval/internal/domain/user"

	"github.com/google/uuid"
)

const userColumns = `id, email, name, avatar_url, google_sub, role, created_at, updated_at`

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var _ user.Repository = (*PostgresUserRepository)(nil)

func (r *PostgresUserRepository) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if !u.Role.Valid() {
		u.Role = user.RoleUser
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO users (id, email, name, avatar_url, google_sub, role)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		u.ID, strings.ToLower(u.Email), u.Name, u.AvatarURL, u.GoogleSub, string(u.Role),
	)
	created, err := scanUser(row)
	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailConflict
		}
		return user.User{}, err
	}
	return created, nil
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
}

func (r *PostgresUserRepository) GetUserByGoogleSub(ctx context.Context, sub string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE google_sub = $1`, sub))
}

func (r *PostgresUserRepository) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE users
		 SET email = $2, name = $3, avatar_url = $4, google_sub = $5, role = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		u.ID, strings.ToLower(u.Email), u.Name, u.AvatarURL, u.GoogleSub, string(u.Role),
	)
	updated, err := scanUser(row)
	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailConflict
		}
		return user.User{}, err
	}
	return updated, nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.GoogleSub, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	return u, nil
}
