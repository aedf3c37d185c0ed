package handler

import (
	"errors"
	"net/url"
	"time"

	"skill-eval/internal/delivery/http/dto"
	"skill-eval/internal/delivery/http/middleware"
	"skill-eval/internal/pkg/response"
	"skill-eval/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const oauthStateCookie = "oauth_state"

type AuthCookieConfig struct {
	Name        string
	Secure      bool
	FrontendURL string
}

type AuthHandler struct {
	uc     usecase.AuthUsecase
	cookie AuthCookieConfig
}

func NewAuthHandler(uc usecase.AuthUsecase, cookie AuthCookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "skilleval_session"
	}
	return &AuthHandler{uc: uc, cookie: cookie}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/google/login", h.GoogleLogin)
	r.Get("/google/callback", h.GoogleCallback)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)
}

func (h *AuthHandler) GoogleLogin(c fiber.Ctx) error {
	authURL, state, err := h.uc.BeginGoogleLogin(c.Context())
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int(usecase.OAuthStateTTL.Seconds()),
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect().Status(fiber.StatusFound).To(authURL)
}

func (h *AuthHandler) GoogleCallback(c fiber.Ctx) error {
	if msg := c.Query("error"); msg != "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Google login was cancelled", nil, errors.New(msg))
	}

	res, err := h.uc.CompleteGoogleLogin(c.Context(), c.Query("code"), c.Query("state"), c.Cookies(oauthStateCookie))
	h.clearCookie(c, oauthStateCookie)
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	h.setSessionCookie(c, res.AccessToken, res.ExpiresIn)

	if h.cookie.FrontendURL != "" {
		return c.Redirect().Status(fiber.StatusFound).To(frontendRedirect(h.cookie.FrontendURL))
	}
	return response.OK(c, dto.FromAuthResult(res))
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	res, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	h.setSessionCookie(c, res.AccessToken, res.ExpiresIn)
	return response.OK(c, dto.FromAuthResult(res))
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	h.clearCookie(c, h.cookie.Name)
	return response.OK(c, fiber.Map{"logged_out": true})
}

func (h *AuthHandler) setSessionCookie(c fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(c fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func frontendRedirect(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("login", "success")
	u.RawQuery = q.Encode()
	return u.String()
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrOAuthDisabled):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Google login is not configured", nil, err)
	case errors.Is(err, usecase.ErrInvalidOAuthState):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid or expired login state", nil, err)
	case errors.Is(err, usecase.ErrOAuthExchange):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Google login failed", nil, err)
	case errors.Is(err, usecase.ErrRefreshTokenExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Email is linked to another Google account", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternal, nil, err)
	}
}
