package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log"
	"time"

	"skill-eval/internal/domain/user"
	"skill-eval/internal/infrastructure/oauth"
	"skill-eval/internal/pkg/jwt"
	ucauth "skill-eval/internal/usecase/auth"
)

const OAuthStateTTL = 5 * time.Minute

type GoogleProvider interface {
	Enabled() bool
	AuthCodeURL(state string) (string, error)
	Exchange(ctx context.Context, code string) (oauth.Profile, error)
}

type AuthResult struct {
	User         user.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

type AuthUsecase interface {
	BeginGoogleLogin(ctx context.Context) (authURL string, state string, err error)
	CompleteGoogleLogin(ctx context.Context, code, state, cookieState string) (AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (AuthResult, error)
}

type Auth struct {
	authSvc *ucauth.Service
	users   user.Repository
	jwt     jwt.Service
	google  GoogleProvider
	states  StateStore
	logger  *log.Logger
}

func NewAuthUsecase(users user.Repository, jwtSvc jwt.Service, google GoogleProvider, states StateStore, adminEmails []string, logger *log.Logger) *Auth {
	if logger == nil {
		logger = log.Default()
	}
	return &Auth{
		authSvc: ucauth.NewService(users, adminEmails),
		users:   users,
		jwt:     jwtSvc,
		google:  google,
		states:  states,
		logger:  logger,
	}
}

func (u *Auth) BeginGoogleLogin(ctx context.Context) (string, string, error) {
	if u.google == nil || !u.google.Enabled() {
		return "", "", ErrOAuthDisabled
	}

	state, err := newState()
	if err != nil {
		return "", "", internal(err)
	}
	if u.states != nil {
		if _, err := u.states.SetIfNotExists(ctx, stateKey(state), "1", OAuthStateTTL); err != nil {
			u.logger.Printf("OAuth state store unavailable, relying on cookie | err=%v", err)
		}
	}

	url, err := u.google.AuthCodeURL(state)
	if err != nil {
		return "", "", internal(err)
	}
	return url, state, nil
}

// CompleteGoogleLogin checks state against the cookie copy and the one-time
// server copy, exchanges the code and issues a token pair.
func (u *Auth) CompleteGoogleLogin(ctx context.Context, code, state, cookieState string) (AuthResult, error) {
	if u.google == nil || !u.google.Enabled() {
		return AuthResult{}, ErrOAuthDisabled
	}
	if code == "" || state == "" || cookieState == "" {
		return AuthResult{}, ErrInvalidOAuthState
	}
	if subtle.ConstantTimeCompare([]byte(state), []byte(cookieState)) != 1 {
		return AuthResult{}, ErrInvalidOAuthState
	}
	if u.states != nil {
		_, found, err := u.states.ConsumeKey(ctx, stateKey(state))
		if err != nil {
			u.logger.Printf("OAuth state store unavailable, relying on cookie | err=%v", err)
		} else if !found {
			return AuthResult{}, ErrInvalidOAuthState
		}
	}

	profile, err := u.google.Exchange(ctx, code)
	if err != nil {
		u.logger.Printf("OAuth exchange failed | err=%v", err)
		return AuthResult{}, ErrOAuthExchange
	}

	usr, err := u.authSvc.UpsertGoogleUser(ctx, ucauth.GoogleIdentity{
		Subject:       profile.Subject,
		Email:         profile.Email,
		EmailVerified: profile.EmailVerified,
		Name:          profile.Name,
		Picture:       profile.Picture,
	})
	if err != nil {
		switch {
		case errors.Is(err, ucauth.ErrInvalidIdentity):
			return AuthResult{}, ErrUnauthorized
		case errors.Is(err, ucauth.ErrAccountConflict):
			return AuthResult{}, ErrConflict
		default:
			return AuthResult{}, internal(err)
		}
	}

	return u.issue(usr)
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if refreshToken == "" {
		return AuthResult{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AuthResult{}, ErrRefreshTokenExpired
		}
		return AuthResult{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return AuthResult{}, ErrInvalidRefreshToken
		}
		return AuthResult{}, internal(err)
	}

	return u.issue(usr)
}

func (u *Auth) issue(usr user.User) (AuthResult, error) {
	access, err := u.jwt.GenerateAccessToken(usr.ID, usr.Email, string(usr.Role))
	if err != nil {
		return AuthResult{}, internal(err)
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return AuthResult{}, internal(err)
	}
	return AuthResult{User: usr, AccessToken: access, RefreshToken: refresh, ExpiresIn: u.jwt.AccessTTL()}, nil
}

func stateKey(state string) string {
	return "oauth:state:" + state
}

func newState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
