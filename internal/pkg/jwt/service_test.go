package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService(now time.Time) *HMACService {
	s := NewHMACService("access-secret", "refresh-secret", 15*time.Minute, time.Hour, "skill-eval")
	s.now = func() time.Time { return now }
	return s
}

func TestAccessToken_RoundTrip(t *testing.T) {
	now := time.Now()
	s := newTestService(now)
	uid := uuid.New()

	tok, err := s.GenerateAccessToken(uid, "a@example.com", "ADMIN")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	c, err := s.ValidateAccessToken(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.UserID != uid || c.Email != "a@example.com" || c.Role != "ADMIN" {
		t.Fatalf("unexpected claims %+v", c)
	}
	if c.ID == "" || c.Issuer != "skill-eval" {
		t.Fatalf("expected jti and issuer, got %+v", c.RegisteredClaims)
	}
}

func TestValidate_RejectsWrongTokenType(t *testing.T) {
	s := newTestService(time.Now())
	uid := uuid.New()

	refresh, err := s.GenerateRefreshToken(uid)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := s.ValidateAccessToken(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected refresh token rejected as access, got %v", err)
	}

	access, err := s.GenerateAccessToken(uid, "", "USER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := s.ValidateRefreshToken(access); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected access token rejected as refresh, got %v", err)
	}
	if _, err := s.ValidateRefreshToken(refresh); err != nil {
		t.Fatalf("refresh should validate: %v", err)
	}
}

func TestValidate_Expired(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	s := newTestService(issued)

	tok, err := s.GenerateAccessToken(uuid.New(), "", "USER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	s.now = time.Now
	if _, err := s.ValidateAccessToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_WrongIssuer(t *testing.T) {
	now := time.Now()
	other := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour, "someone-else")
	other.now = func() time.Time { return now }

	tok, err := other.GenerateAccessToken(uuid.New(), "", "USER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := newTestService(now).ValidateAccessToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected issuer mismatch to be invalid, got %v", err)
	}
}

func TestGenerate_MissingSecret(t *testing.T) {
	s := NewHMACService("", "r", time.Minute, time.Hour, "")
	if _, err := s.GenerateAccessToken(uuid.New(), "", "USER"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
