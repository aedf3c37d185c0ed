package dto

import "skill-eval/internal/usecase"

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type LoginResponse struct {
	User UserResponse `json:"user"`
	TokenPairResponse
}

func FromAuthResult(res usecase.AuthResult) LoginResponse {
	return LoginResponse{
		User: FromUser(res.User),
		TokenPairResponse: TokenPairResponse{
			AccessToken:  res.AccessToken,
			RefreshToken: res.RefreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    int64(res.ExpiresIn.Seconds()),
		},
	}
}
