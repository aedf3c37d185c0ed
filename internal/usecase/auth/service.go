package auth

import (
	"context"
	"errors"
	"strings"

	"skill-eval/internal/domain/user"
)

var (
	ErrInvalidIdentity = errors.New("invalid identity")
	ErrAccountConflict = errors.New("email already linked to another google account")
	ErrInternal        = errors.New("internal error")
)

// GoogleIdentity is the subset of the Google userinfo response used to
// provision accounts.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

type Service struct {
	users       user.Repository
	adminEmails map[string]struct{}
}

func NewService(users user.Repository, adminEmails []string) *Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &Service{users: users, adminEmails: admins}
}

// UpsertGoogleUser resolves the account for id: first by Google subject,
// then by verified email (linking the subject), else a new account.
func (s *Service) UpsertGoogleUser(ctx context.Context, id GoogleIdentity) (user.User, error) {
	id.Subject = strings.TrimSpace(id.Subject)
	id.Email = normalizeEmail(id.Email)
	if id.Subject == "" || id.Email == "" || !id.EmailVerified {
		return user.User{}, ErrInvalidIdentity
	}

	u, err := s.users.GetUserByGoogleSub(ctx, id.Subject)
	switch {
	case err == nil:
		return s.refresh(ctx, u, id)
	case !errors.Is(err, user.ErrNotFound):
		return user.User{}, ErrInternal
	}

	u, err = s.users.GetUserByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if u.GoogleSub != nil && *u.GoogleSub != id.Subject {
			return user.User{}, ErrAccountConflict
		}
		return s.refresh(ctx, u, id)
	case !errors.Is(err, user.ErrNotFound):
		return user.User{}, ErrInternal
	}

	sub := id.Subject
	role := user.RoleUser
	if s.isAdminEmail(id.Email) {
		role = user.RoleAdmin
	}
	created, err := s.users.CreateUser(ctx, user.User{
		Email:     id.Email,
		Name:      displayName(id),
		AvatarURL: id.Picture,
		GoogleSub: &sub,
		Role:      role,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailConflict) {
			// Lost a race with a concurrent first login.
			if existing, gerr := s.users.GetUserByGoogleSub(ctx, id.Subject); gerr == nil {
				return existing, nil
			}
			return user.User{}, ErrAccountConflict
		}
		return user.User{}, ErrInternal
	}
	return created, nil
}

func (s *Service) refresh(ctx context.Context, u user.User, id GoogleIdentity) (user.User, error) {
	changed := false
	if u.GoogleSub == nil {
		sub := id.Subject
		u.GoogleSub = &sub
		changed = true
	}
	if u.Email != id.Email {
		u.Email = id.Email
		changed = true
	}
	if u.Name == "" && id.Name != "" {
		u.Name = id.Name
		changed = true
	}
	if id.Picture != "" && u.AvatarURL != id.Picture {
		u.AvatarURL = id.Picture
		changed = true
	}
	if u.Role != user.RoleAdmin && s.isAdminEmail(u.Email) {
		u.Role = user.RoleAdmin
		changed = true
	}
	if !changed {
		return u, nil
	}

	updated, err := s.users.UpdateUser(ctx, u)
	if err != nil {
		if errors.Is(err, user.ErrEmailConflict) {
			return user.User{}, ErrAccountConflict
		}
		return user.User{}, ErrInternal
	}
	return updated, nil
}

func (s *Service) isAdminEmail(email string) bool {
	_, ok := s.adminEmails[normalizeEmail(email)]
	return ok
}

func displayName(id GoogleIdentity) string {
	if n := strings.TrimSpace(id.Name); n != "" {
		return n
	}
	if at := strings.IndexByte(id.Email, '@'); at > 0 {
		return id.Email[:at]
	}
	return id.Email
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}
