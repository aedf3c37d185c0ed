package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	AvatarURL string
	GoogleSub *string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
