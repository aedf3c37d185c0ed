package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrOAuthDisabled       = errors.New("google login is not configured")
	ErrInvalidOAuthState   = errors.New("invalid oauth state")
	ErrOAuthExchange       = errors.New("google login failed")
	ErrCategoryInUse       = errors.New("category is referenced by skills")
	ErrSkillNotFound       = errors.New("skill not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrAssessmentNotFound  = errors.New("assessment not found")
	ErrSkillAlreadyExists  = errors.New("skill already exists")
	ErrCategoryExists      = errors.New("category already exists")
	ErrInternal            = errors.New("internal error")
)

// internal keeps ErrInternal matchable while carrying the cause for logs.
func internal(err error) error {
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
