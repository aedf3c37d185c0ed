package user

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"skill-eval/internal/domain/user"

	"github.com/google/uuid"
)

const MaxNameLength = 100

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
	ErrInternal     = errors.New("internal error")
)

type UpdateMeInput struct {
	Name      *string
	AvatarURL *string
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return usr, nil
}

func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateMeInput) (user.User, error) {
	usr, err := s.GetMe(ctx, userID)
	if err != nil {
		return user.User{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
			return user.User{}, ErrInvalidInput
		}
		usr.Name = name
	}

	if in.AvatarURL != nil {
		avatar := strings.TrimSpace(*in.AvatarURL)
		if avatar != "" && !isHTTPURL(avatar) {
			return user.User{}, ErrInvalidInput
		}
		usr.AvatarURL = avatar
	}

	updated, err := s.users.UpdateUser(ctx, usr)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return updated, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
