package user

import (
	"context"
	"errors"
	"testing"

	"skill-eval/internal/domain/user"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	u user.User
}

func (m *mockUserRepo) CreateUser(context.Context, user.User) (user.User, error) {
	return user.User{}, errors.New("not used")
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	if id != m.u.ID {
		return user.User{}, user.ErrNotFound
	}
	return m.u, nil
}

func (m *mockUserRepo) GetUserByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}

func (m *mockUserRepo) GetUserByGoogleSub(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}

func (m *mockUserRepo) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	m.u = u
	return u, nil
}

func TestUpdateMe(t *testing.T) {
	id := uuid.New()
	repo := &mockUserRepo{u: user.User{ID: id, Email: "a@example.com", Name: "Ada", AvatarURL: "https://img/a.png"}}
	svc := NewService(repo)

	name := "  Ada Lovelace "
	u, err := svc.UpdateMe(context.Background(), id, UpdateMeInput{Name: &name})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Name != "Ada Lovelace" || u.AvatarURL != "https://img/a.png" {
		t.Fatalf("unexpected user %+v", u)
	}

	empty := ""
	u, err = svc.UpdateMe(context.Background(), id, UpdateMeInput{AvatarURL: &empty})
	if err != nil || u.AvatarURL != "" {
		t.Fatalf("expected avatar cleared, got %+v err=%v", u, err)
	}
}

func TestUpdateMe_Invalid(t *testing.T) {
	id := uuid.New()
	svc := NewService(&mockUserRepo{u: user.User{ID: id}})

	blank := "  "
	badURL := "javascript:alert(1)"
	for _, in := range []UpdateMeInput{{Name: &blank}, {AvatarURL: &badURL}} {
		if _, err := svc.UpdateMe(context.Background(), id, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestGetMe_NotFound(t *testing.T) {
	svc := NewService(&mockUserRepo{})
	if _, err := svc.GetMe(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
