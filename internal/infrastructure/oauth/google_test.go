package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"skill-eval/internal/config"

	"golang.org/x/oauth2"
)

func TestGoogleClient_Disabled(t *testing.T) {
	g := NewGoogleClient(config.GoogleConfig{ClientID: "id"})
	if g.Enabled() {
		t.Fatalf("expected disabled client without secret and redirect")
	}
	if _, err := g.AuthCodeURL("s"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestGoogleClient_AuthCodeURL(t *testing.T) {
	g := NewGoogleClient(config.GoogleConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"})

	raw, err := g.AuthCodeURL("state-123")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Get("state") != "state-123" || q.Get("client_id") != "id" {
		t.Fatalf("unexpected query %v", q)
	}
	if !strings.Contains(q.Get("scope"), "email") {
		t.Fatalf("expected email scope, got %q", q.Get("scope"))
	}
}

func TestGoogleClient_Exchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"sub":"g-1","email":"Ada@Example.com","name":"Ada","picture":"http://p"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g := &GoogleClient{
		cfg: &oauth2.Config{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURL:  "http://localhost/cb",
			Endpoint:     oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"},
		},
		userInfoURL: srv.URL + "/userinfo",
		httpClient:  &http.Client{Timeout: 5 * time.Second},
	}

	p, err := g.Exchange(context.Background(), "code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if p.Subject != "g-1" || p.Email != "ada@example.com" || p.Name != "Ada" {
		t.Fatalf("unexpected profile %+v", p)
	}
}
