package auth

import (
	"context"
	"errors"
	"testing"

	"skill-eval/internal/domain/user"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	users     []user.User
	createErr error
	updates   int
}

func (m *mockUserRepo) CreateUser(_ context.Context, u user.User) (user.User, error) {
	if m.createErr != nil {
		return user.User{}, m.createErr
	}
	u.ID = uuid.New()
	m.users = append(m.users, u)
	return u, nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *mockUserRepo) GetUserByGoogleSub(_ context.Context, sub string) (user.User, error) {
	for _, u := range m.users {
		if u.GoogleSub != nil && *u.GoogleSub == sub {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *mockUserRepo) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	m.updates++
	for i := range m.users {
		if m.users[i].ID == u.ID {
			m.users[i] = u
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func strPtr(s string) *string { return &s }

func TestUpsertGoogleUser_CreatesNewUser(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewService(repo, nil)

	u, err := svc.UpsertGoogleUser(context.Background(), GoogleIdentity{Subject: "sub-1", Email: " Grace@Example.com ", EmailVerified: true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Email != "grace@example.com" || u.Name != "grace" || u.Role != user.RoleUser {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.GoogleSub == nil || *u.GoogleSub != "sub-1" {
		t.Fatalf("expected google sub stored")
	}
}

func TestUpsertGoogleUser_LinksExistingEmail(t *testing.T) {
	existing := user.User{ID: uuid.New(), Email: "grace@example.com", Name: "Grace H", Role: user.RoleUser}
	repo := &mockUserRepo{users: []user.User{existing}}
	svc := NewService(repo, []string{"GRACE@example.com"})

	u, err := svc.UpsertGoogleUser(context.Background(), GoogleIdentity{Subject: "sub-1", Email: "grace@example.com", EmailVerified: true, Name: "Grace"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.ID != existing.ID || u.GoogleSub == nil || *u.GoogleSub != "sub-1" {
		t.Fatalf("expected existing account linked, got %+v", u)
	}
	if u.Name != "Grace H" {
		t.Fatalf("existing name must be kept, got %q", u.Name)
	}
	if u.Role != user.RoleAdmin {
		t.Fatalf("expected admin promotion from list")
	}
}

func TestUpsertGoogleUser_NoWriteWhenUnchanged(t *testing.T) {
	existing := user.User{ID: uuid.New(), Email: "grace@example.com", Name: "Grace", GoogleSub: strPtr("sub-1"), Role: user.RoleUser}
	repo := &mockUserRepo{users: []user.User{existing}}
	svc := NewService(repo, nil)

	if _, err := svc.UpsertGoogleUser(context.Background(), GoogleIdentity{Subject: "sub-1", Email: "grace@example.com", EmailVerified: true, Name: "Grace"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.updates != 0 {
		t.Fatalf("expected no update, got %d", repo.updates)
	}
}

func TestUpsertGoogleUser_Rejections(t *testing.T) {
	linked := user.User{ID: uuid.New(), Email: "grace@example.com", GoogleSub: strPtr("sub-other")}
	repo := &mockUserRepo{users: []user.User{linked}}
	svc := NewService(repo, nil)

	cases := []struct {
		name string
		id   GoogleIdentity
		want error
	}{
		{name: "unverified", id: GoogleIdentity{Subject: "s", Email: "x@example.com"}, want: ErrInvalidIdentity},
		{name: "missing subject", id: GoogleIdentity{Email: "x@example.com", EmailVerified: true}, want: ErrInvalidIdentity},
		{name: "email owned by another google account", id: GoogleIdentity{Subject: "sub-1", Email: "grace@example.com", EmailVerified: true}, want: ErrAccountConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.UpsertGoogleUser(context.Background(), tc.id); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
