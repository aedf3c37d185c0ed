package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"skill-eval/internal/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

var (
	ErrNotConfigured = errors.New("google oauth not configured")
	ErrExchange      = errors.New("google code exchange failed")
	ErrUserInfo      = errors.New("google userinfo request failed")
)

type Profile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type GoogleClient struct {
	cfg         *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

func NewGoogleClient(cfg config.GoogleConfig) *GoogleClient {
	if !cfg.Enabled() {
		return &GoogleClient{}
	}
	return &GoogleClient{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *GoogleClient) Enabled() bool {
	return g != nil && g.cfg != nil
}

func (g *GoogleClient) AuthCodeURL(state string) (string, error) {
	if !g.Enabled() {
		return "", ErrNotConfigured
	}
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account")), nil
}

// Exchange trades an authorization code for the user's Google profile.
func (g *GoogleClient) Exchange(ctx context.Context, code string) (Profile, error) {
	if !g.Enabled() {
		return Profile{}, ErrNotConfigured
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return Profile{}, err
	}
	resp, err := g.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Profile{}, fmt.Errorf("%w: status=%d body=%s", ErrUserInfo, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	if p.Subject == "" || p.Email == "" {
		return Profile{}, fmt.Errorf("%w: profile missing sub or email", ErrUserInfo)
	}
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	return p, nil
}
